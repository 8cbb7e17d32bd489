// Package prompts holds the system and user prompt templates sent to
// the translation model.
package prompts

import (
	"fmt"
	"strings"
)

// TranslationSystem is the system instruction for book translation.
// It embeds the character dictionary so names stay consistent across
// chunks, and pins down the wire format the chunk codec relies on.
const TranslationSystem = `You are a professional literary translator. Translate the novel text the user provides into natural, fluent Korean.

Formatting rules (mandatory):
- The input is a list of numbered lines. Each line starts with a marker like [12]. Reproduce every marker exactly, one per line, in the same order. Do not add, drop, merge, or renumber lines.
- Inline tokens of the form <<name:payload>> mark emphasis spans and links. Keep each token in place and translate only the payload text of emphasis tokens. Never alter a token whose name is "a".
- Output only the translated lines. No commentary, no explanations.

Character dictionary (use these renderings consistently):
%s`

// TranslationUser frames one chunk together with the previous chunk's
// source text for continuity.
const TranslationUser = `Previous passage (context only, do not translate):
%s

Translate the following passage:
%s`

// BuildTranslationSystem fills the system template with a rendered
// character dictionary ("(none)" when empty).
func BuildTranslationSystem(charDict string) string {
	if strings.TrimSpace(charDict) == "" {
		charDict = "(none)"
	}
	return fmt.Sprintf(TranslationSystem, charDict)
}

// BuildTranslationUser fills the user template for one chunk.
func BuildTranslationUser(prevContext, chunkText string) string {
	if strings.TrimSpace(prevContext) == "" {
		prevContext = "(start of file)"
	}
	return fmt.Sprintf(TranslationUser, prevContext, chunkText)
}

// DictionarySystem instructs the model to build a character dictionary
// from a novel's full text as a strict JSON object.
const DictionarySystem = `You analyze a novel and produce a character dictionary for translation into Korean.

Return ONLY a JSON object with exactly two keys:
- "characters": array of objects, each with "source" (name as written in the original), "target" (Korean rendering), and optional "notes" (speech style, honorifics, relationships).
- "groups": array of objects in the same shape for organizations, factions, and place names.

Include every named character that appears more than once. Prefer established romanizations or official translations where they exist.`

// DictionaryUser frames the novel text for dictionary generation.
const DictionaryUser = `Build the character dictionary for the following novel text:

%s`

// BuildDictionaryUser fills the dictionary user template.
func BuildDictionaryUser(fullText string) string {
	return fmt.Sprintf(DictionaryUser, fullText)
}
