// Package lang implements the Avon expression language: a small, pure,
// functional language whose programs compute values and file-generation
// templates.
//
// The package is organized as a conventional front end and evaluation
// engine:
//
//   - [Tokenize] converts source text into a token stream, tracking
//     brace-run lengths to recognize template literal boundaries.
//   - [Parse] builds an immutable [Expr] tree by recursive descent,
//     resolving template bodies into literal and embedded-expression
//     segments as it goes.
//   - [Eval] walks the tree against an [Env] chain and produces a [Value]
//     or an [*Error] carrying the chain of named call sites.
//
// Functions are curried: multi-parameter lambda syntax parses to nested
// single-parameter closures, and builtins are registered as pre-curried
// native closures, so partial application needs no arity bookkeeping.
//
// Environments are immutable singly-linked frames created only by let
// bindings and lambda application. A binding is never visible inside its
// own bound expression (no recursion) and may not shadow an enclosing
// binding; both are checked at bind time.
//
// Template literals use brace escalation: a level-k template is delimited
// by k braces and a quote, and within its body only brace runs of length
// at least k interpolate. Shorter runs pass through as literal text, which
// lets higher-level templates generate lower-level template syntax
// verbatim.
package lang
