// Package clarg (Command-Line ARGuments) binds the tokens of a command line
// to strongly typed program variables.
//
// A Registry holds one Binding per program option. Named options are
// matched by their exact flag spelling ("-n", "--count"); positional
// options are matched by position, and the last positional option may be
// final, consuming every positional token left. Parse walks the tokens
// once, hands each one to the matching binding and, once the stream is
// exhausted, checks that every required option was seen.
//
// Bindings are usually created through the binding factory:
//   - Bind: convert one token with a Formatter and store it in a
//     Destination (Value, Append or Insert). With a separator the token is
//     split and every piece is stored.
//   - BindFunc: hand the Cursor to a custom handler that may consume any
//     number of tokens.
//   - Switch: a named option that takes no value.
//   - BindValue and ImportFlagSet: reuse pflag values and flag sets.
//   - BindStruct: declare options with `arg` struct tags.
//
// Formatters decide how text becomes a value and which values are legal:
//   - As: plain conversion for strings, numbers, bools, durations,
//     timestamps, UUIDs and encoding.TextUnmarshaler types.
//   - InRange, AtLeast, AtMost, Within: numeric bounds.
//   - OneOf, Among: membership in a fixed list.
//   - Mapped: translation through a ValueMap, which may be loaded from
//     JSON or YAML.
//   - Func: anything else.
//   - Bytes, Semver, JSON: sizes, semantic versions and JSON documents.
//
// Every failure leaving Parse is an *ArgError whose Kind is one of
// ValueMissing, IllegalValue, UnknownArgument, TooManyArguments or
// RequiredArgumentMissing. Its Error() text is ready to print:
//
//	app: Illegal value "11" for command-line argument Count (-n) (Value must be between 0 and 10 (inclusive))
//
// -h and --help are reserved. They only set ShowUsage; rendering usage and
// exiting is left to the program. Values written before a failure are not
// rolled back.
package clarg

/**
PLANNING:
- Default values subtag for BindStruct, e.g. `default:'5'`, applied in the init hook.
- Environment variable fallback for named options that were not found.
- Usage rendering helper built on Registry.Bindings().
*/
