package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var stdin = bufio.NewReader(os.Stdin)

func readLine(prompt string) string {
	fmt.Print(prompt)
	line, _ := stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

// selectFrom prints a numbered list and accepts either a number or an
// exact item name.
func selectFrom(title string, items []string) string {
	fmt.Println(title)
	for i, it := range items {
		fmt.Printf("%d. %s\n", i+1, it)
	}
	for {
		in := readLine("> ")
		if n, err := strconv.Atoi(in); err == nil && n >= 1 && n <= len(items) {
			return items[n-1]
		}
		for _, it := range items {
			if in == it {
				return it
			}
		}
		fmt.Println("Invalid selection, try again.")
	}
}

// confirm asks a y/n question; a true yes flag skips the prompt.
func confirm(yes bool, prompt string) bool {
	if yes {
		return true
	}
	for {
		switch strings.ToLower(readLine(prompt + " (y/n): ")) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		default:
			fmt.Println("Please answer 'y' or 'n'.")
		}
	}
}
