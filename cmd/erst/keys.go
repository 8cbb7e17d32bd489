package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shwan6160/EPUB-AI-Translator/internal/keystore"
	"github.com/shwan6160/EPUB-AI-Translator/internal/workspace"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage stored provider API keys",
}

func init() {
	keysCmd.AddCommand(
		&cobra.Command{
			Use:   "set <name> [value]",
			Short: "Store an API key",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := openKeystore()
				if err != nil {
					return err
				}
				value := ""
				if len(args) == 2 {
					value = args[1]
				} else {
					value = readLine(args[0] + ": ")
				}
				if value == "" {
					return fmt.Errorf("empty key value")
				}
				return store.Set(args[0], value)
			},
		},
		&cobra.Command{
			Use:   "get <name>",
			Short: "Print a stored API key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := openKeystore()
				if err != nil {
					return err
				}
				key, err := store.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Println(key)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List key names and whether they are set",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := openKeystore()
				if err != nil {
					return err
				}
				keys, err := store.List()
				if err != nil {
					return err
				}
				names := make([]string, 0, len(keys))
				for n := range keys {
					names = append(names, n)
				}
				sort.Strings(names)
				for _, n := range names {
					v := keys[n]
					if v != "(empty)" {
						v = mask(v)
					}
					fmt.Printf("%s\t%s\n", n, v)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Remove a stored API key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := openKeystore()
				if err != nil {
					return err
				}
				return store.Delete(args[0])
			},
		},
	)
}

func openKeystore() (*keystore.Store, error) {
	root, err := workspace.Dir()
	if err != nil {
		return nil, err
	}
	return keystore.New(root), nil
}

func mask(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
