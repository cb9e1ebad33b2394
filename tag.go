package clarg

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Base Error types for tag parsing errors
var (
	ErrInvalidSubTagFormat      = errors.New("invalid subtag format")
	ErrUnterminatedSubTag       = errors.New("subtag value is missing its closing quote")
	ErrDuplicateSubTag          = errors.New("subtag appears more than once")
	ErrUnknownSubTag            = errors.New("subtag is not recognised")
	ErrEmptyBindingIdentifier   = errors.New("binding identifier cannot be empty")
	ErrUnallowedBindingModifier = errors.New("binding modifier is not allowed")
	ErrNoBindingSubTag          = errors.New("tag needs exactly one of the flag or pos subtags")
	ErrInvalidRangeSubTag       = errors.New("range subtag must look like MIN..MAX")
)

// This file contains the decoder for the `arg` struct tag read by
// BindStruct. It supports the following grammar:
//
// Tag grammar:
//     <field> <type> `arg:"<subtag_list>"`
//
// subtag_list:
//     [<subtag>]^* // Space Separated
// subtag:
//     <key>:'<value>' | <key>:<value_without_spaces>
//
// key:
//     flag | pos | help | sep | range | choices
//
// flag, pos:
//     '<identifier>,<modifier_list>'
// modifier_list:
//     [required | allowempty]^* // Delimited with ","
// range:
//     '<min>..<max>' // Either side may be empty
// choices:
//     '<choice>|<choice>|...'
//
// Inside a quoted value a backslash escapes the next character, so
// sep:'\'' uses a single quote as the separator.

// ArgTag is the decoded form of one `arg` tag.
// Example: count int `arg:"flag:'-n,required' help:'count' range:'0..10'"`
type ArgTag struct {
	Flag       string   // Set for named options
	Pos        string   // Set for positional options; the display name
	Required   bool     // "required" modifier
	AllowEmpty bool     // "allowempty" modifier
	Help       string   // Description used in errors and usage
	Sep        string   // Split separator
	Choices    []string // Legal values, as text
	Range      *RangeTag
}

// RangeTag is the decoded form of a range subtag. Empty sides are open.
type RangeTag struct {
	Min string
	Max string
}

var knownSubTags = []string{FlagSubTag, PosSubTag, HelpSubTag, SepSubTag, ChoicesSubTag, RangeSubTag}

// LookupArgTag decodes the `arg` tag of field. It reports false when the
// field carries no such tag.
func LookupArgTag(field reflect.StructField) (ArgTag, bool, error) {
	tag, ok := field.Tag.Lookup(ArgTagName)
	if !ok {
		return ArgTag{}, false, nil
	}

	argTag, err := DecodeArgTag(tag)
	if err != nil {
		return ArgTag{}, true, fmt.Errorf("error decoding %s tag for field %s: %w", ArgTagName, field.Name, err)
	}
	return argTag, true, nil
}

// DecodeArgTag decodes the contents of an `arg` tag.
func DecodeArgTag(tag string) (ArgTag, error) {
	subTags, err := SubTags(tag)
	if err != nil {
		return ArgTag{}, err
	}
	for key := range subTags {
		if !slices.Contains(knownSubTags, key) {
			return ArgTag{}, fmt.Errorf("%w: %s", ErrUnknownSubTag, key)
		}
	}

	flagInfo, hasFlag := subTags[FlagSubTag]
	posInfo, hasPos := subTags[PosSubTag]
	if hasFlag == hasPos {
		return ArgTag{}, ErrNoBindingSubTag
	}

	var out ArgTag
	info := flagInfo
	if hasPos {
		info = posInfo
	}
	ident, modifiers, err := decodeBindingInfo(info)
	if err != nil {
		return ArgTag{}, err
	}
	if hasFlag {
		out.Flag = ident
	} else {
		out.Pos = ident
	}
	for _, modifier := range modifiers {
		switch modifier {
		case RequiredModifier:
			out.Required = true
		case AllowEmptyModifier:
			out.AllowEmpty = true
		}
	}

	out.Help = subTags[HelpSubTag]
	out.Sep = subTags[SepSubTag]

	if choices, ok := subTags[ChoicesSubTag]; ok {
		out.Choices = strings.Split(choices, ChoicesDelim)
	}

	if rng, ok := subTags[RangeSubTag]; ok {
		lo, hi, found := strings.Cut(rng, RangeDelim)
		if !found || (lo == "" && hi == "") {
			return ArgTag{}, fmt.Errorf("%w: %q", ErrInvalidRangeSubTag, rng)
		}
		out.Range = &RangeTag{Min: strings.TrimSpace(lo), Max: strings.TrimSpace(hi)}
	}

	return out, nil
}

// decodeBindingInfo splits "identifier,modifier,..." and checks the
// modifiers.
func decodeBindingInfo(info string) (string, []string, error) {
	parts := strings.Split(info, IdentModDelim)
	ident := strings.TrimSpace(parts[0])
	if ident == "" {
		return "", nil, fmt.Errorf("%w: %q", ErrEmptyBindingIdentifier, info)
	}

	modifiers := make([]string, 0, len(parts)-1)
	for _, modifier := range parts[1:] {
		modifier = strings.TrimSpace(modifier)
		if modifier == "" {
			continue
		}
		switch modifier {
		case RequiredModifier, AllowEmptyModifier:
			modifiers = append(modifiers, modifier)
		default:
			return "", nil, fmt.Errorf("%w: %s", ErrUnallowedBindingModifier, modifier)
		}
	}
	return ident, modifiers, nil
}

// SubTags splits a tag into its key:value pairs. Values are either quoted
// with SubTagScope or run to the next whitespace.
func SubTags(tag string) (map[string]string, error) {
	return SubTagsByDelimiter(tag, SubTagScope)
}

func SubTagsByDelimiter(tag string, delim byte) (map[string]string, error) {
	result := make(map[string]string)

	i := 0
	for i < len(tag) {
		// Skip whitespace
		for i < len(tag) && isTagSpace(tag[i]) {
			i++
		}
		if i >= len(tag) {
			break
		}

		colonIdx := strings.IndexByte(tag[i:], SubTagKVDelim)
		if colonIdx == -1 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSubTagFormat, tag[i:])
		}
		key := tag[i : i+colonIdx]
		if key == "" || strings.ContainsAny(key, " \t") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSubTagFormat, tag[i:])
		}
		i += colonIdx + 1

		var value string
		if i < len(tag) && tag[i] == delim {
			var (
				builder strings.Builder
				closed  bool
			)
			for i++; i < len(tag); i++ {
				c := tag[i]
				if c == '\\' && i+1 < len(tag) {
					i++
					builder.WriteByte(tag[i])
					continue
				}
				if c == delim {
					closed = true
					i++
					break
				}
				builder.WriteByte(c)
			}
			if !closed {
				return nil, fmt.Errorf("%w: %s", ErrUnterminatedSubTag, key)
			}
			value = builder.String()
		} else {
			start := i
			for i < len(tag) && !isTagSpace(tag[i]) {
				i++
			}
			value = tag[start:i]
		}

		if _, exists := result[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSubTag, key)
		}
		result[key] = value
	}

	return result, nil
}

// SubTag returns the value of a single key in tag.
func SubTag(tag, key string) (string, error) {
	subTags, err := SubTags(tag)
	if err != nil {
		return "", err
	}
	value, ok := subTags[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSubTagNotFound, key)
	}
	return value, nil
}

var ErrSubTagNotFound = errors.New("subtag not found")

func isTagSpace(c byte) bool { return c == ' ' || c == '\t' }
