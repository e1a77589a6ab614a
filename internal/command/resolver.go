// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package command

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/gobwas/glob"

	"github.com/embermud/embermud/internal/world"
)

// Candidate is one nearby thing an object phrase can refer to.
type Candidate struct {
	Ref  world.Ref
	Name string
}

// objectPhrase is the grammar for naming a thing: an optional ordinal
// to pick among duplicates ("2.door"), then one or more words that
// must all match the target's name. Words may carry glob wildcards.
type objectPhrase struct {
	Ordinal *int     `parser:"( @Int '.' )?"`
	Words   []string `parser:"@Word ( @Word )*"`
}

var phraseLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `\d+`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Word", Pattern: `[^\s.]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var phraseParser = participle.MustBuild[objectPhrase](
	participle.Lexer(phraseLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ResolveObject matches an object phrase against the candidates and
// returns the chosen ref. notFound is the player-facing text used when
// nothing matches.
func ResolveObject(input string, candidates []Candidate, notFound string) (world.Ref, error) {
	phrase, err := phraseParser.ParseString("", strings.ToLower(strings.TrimSpace(input)))
	if err != nil {
		return world.Ref{}, ErrTargetNotFound(notFound)
	}

	matchers := make([]glob.Glob, 0, len(phrase.Words))
	for _, w := range phrase.Words {
		g, err := glob.Compile(w)
		if err != nil {
			return world.Ref{}, ErrTargetNotFound(notFound)
		}
		matchers = append(matchers, g)
	}

	wanted := 1
	if phrase.Ordinal != nil {
		wanted = *phrase.Ordinal
		if wanted < 1 {
			return world.Ref{}, ErrTargetNotFound(notFound)
		}
	}

	seen := 0
	for _, cand := range candidates {
		if !nameMatches(matchers, cand.Name) {
			continue
		}
		seen++
		if seen == wanted {
			return cand.Ref, nil
		}
	}
	return world.Ref{}, ErrTargetNotFound(notFound)
}

// nameMatches reports whether every phrase word matches some word of
// the candidate name. "iron door" names "heavy iron door"; "sw*rd"
// names "sword".
func nameMatches(matchers []glob.Glob, name string) bool {
	nameWords := strings.Fields(strings.ToLower(name))
	for _, m := range matchers {
		matched := false
		for _, nw := range nameWords {
			if m.Match(nw) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return len(matchers) > 0
}
