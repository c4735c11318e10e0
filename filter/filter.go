// Package filter compiles boolean expressions over movies.
//
// Expressions use the expr language. The variables Title, Year, Rating,
// Votes, Popularity, Language, Adult, GenreIDs, ReleaseDate and Overview
// describe the movie, and the helpers contains, startsWith, hasGenre,
// daysSince, yearsAgo, lower, upper and now are available:
//
//	Rating >= 7.5 && Votes > 1000
//	hasGenre(878) && Year >= 2010
//	contains(Title, "star") && ReleaseDate > yearsAgo(5)
package filter

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/cinestream/movies"
)

// DefaultCacheSize is the number of compiled expressions kept.
const DefaultCacheSize = 64

// Filter is a compiled expression. It is safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compiler compiles expressions and caches the programs.
type Compiler struct {
	cache *programCache
}

// NewCompiler creates a compiler caching up to cacheSize programs.
func NewCompiler(cacheSize int) *Compiler {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &Compiler{cache: newProgramCache(cacheSize)}
}

var defaultCompiler = NewCompiler(DefaultCacheSize)

// Compile compiles expression with the package compiler.
func Compile(expression string) (*Filter, error) {
	return defaultCompiler.Compile(expression)
}

// Compile compiles expression into a filter.
func (c *Compiler) Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	if f, ok := c.cache.get(expression); ok {
		return f, nil
	}

	program, err := expr.Compile(expression,
		expr.Env(movieEnv(movies.Movie{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	f := &Filter{expression: expression, program: program}
	c.cache.put(expression, f)
	return f, nil
}

// Size returns the number of cached programs.
func (c *Compiler) Size() int {
	return c.cache.len()
}

// Expression returns the source expression.
func (f *Filter) Expression() string {
	return f.expression
}

// Match reports whether m satisfies the filter. Evaluation errors count as no
// match.
func (f *Filter) Match(m movies.Movie) bool {
	result, err := expr.Run(f.program, movieEnv(m))
	if err != nil {
		return false
	}
	matched, _ := result.(bool)
	return matched
}

// Apply returns the movies that match, keeping their order. A nil filter
// matches everything.
func (f *Filter) Apply(list []movies.Movie) []movies.Movie {
	if f == nil {
		return list
	}
	out := make([]movies.Movie, 0, len(list))
	for _, m := range list {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out
}

// Resolve picks the expression to compile from an explicit expression or a
// named preset. An explicit expression wins. Both empty yields "".
func Resolve(expression, preset string, presets map[string]string) (string, error) {
	if strings.TrimSpace(expression) != "" {
		return expression, nil
	}
	if preset == "" {
		return "", nil
	}
	if e, ok := presets[preset]; ok {
		return e, nil
	}
	// viper lowercases map keys
	if e, ok := presets[strings.ToLower(preset)]; ok {
		return e, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownPreset, preset)
}
