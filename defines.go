package clarg

// Flag syntax constants.
const (
	FlagMarker    = '-'
	HelpFlagShort = "-h"
	HelpFlagLong  = "--help"
)

// Struct tag names read by BindStruct.
const (
	ArgTagName = "arg"

	FlagSubTag    = "flag"
	PosSubTag     = "pos"
	HelpSubTag    = "help"
	SepSubTag     = "sep"
	ChoicesSubTag = "choices"
	RangeSubTag   = "range"
	SubTagScope   = byte('\'')
	SubTagKVDelim = ':'
	ChoicesDelim  = "|"
	RangeDelim    = ".."
	IdentModDelim = ","
)

// Binding modifiers accepted after the identifier in a flag or pos subtag.
const (
	RequiredModifier   = "required"
	AllowEmptyModifier = "allowempty"
)
