package clarg

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrInvalidStructDestination = errors.New("destination must be a non-nil pointer to a struct")
	ErrInvalidTagValue          = errors.New("tag value cannot be converted to the field type")
	ErrRangeOnNonNumeric        = errors.New("range subtag needs a numeric field")
)

// FieldPlan is the binding recipe for one tagged struct field. Plans are
// computed once per struct type and shared.
type FieldPlan struct {
	Index    []int        // Field index path, through embedded structs
	Name     string       // Go field name
	Tag      ArgTag       // Decoded tag
	Action   Action       // Write, Append or Insert
	ElemType reflect.Type // Type of one converted value
	Switch   bool         // Named bool field; takes no value

	minValue, maxValue reflect.Value // Invalid when open
	choices            []reflect.Value
	details            struct{ rng, choices string }
}

var structPlans = NewPlanCache[[]FieldPlan]()

// BindStruct registers one option per `arg` tagged field of the struct
// dest points to. Positional fields are registered in field order. If dest
// implements Validatable, Validate runs as a check after every parse.
//
//	type options struct {
//		Count  int      `arg:"flag:'-n,required' help:'Count' range:'1..10'"`
//		Mode   string   `arg:"flag:'--mode' choices:'fast|slow'"`
//		Tags   []string `arg:"flag:'--tags' sep:','"`
//		Files  []string `arg:"pos:'file,required'"`
//	}
//
// Slice fields (other than []byte) append, Set fields insert, everything
// else is overwritten. Named bool fields without a separator are switches.
func BindStruct(r *Registry, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", ErrInvalidStructDestination, dest)
	}

	t := rv.Elem().Type()
	plans, err := structPlans.GetOrCreate(t, func() ([]FieldPlan, error) {
		return buildPlans(t, nil)
	})
	if err != nil {
		return err
	}

	for i := range plans {
		if err := bindField(r, &plans[i], rv.Elem().FieldByIndex(plans[i].Index)); err != nil {
			return fmt.Errorf("field %s: %w", plans[i].Name, err)
		}
	}

	if v, ok := dest.(Validatable); ok {
		r.OnCheck(validationCheck(v))
	}
	return nil
}

func bindField(r *Registry, fp *FieldPlan, field reflect.Value) error {
	arg := Arg{
		Flag:        fp.Tag.Flag,
		Description: fp.Tag.Help,
		Required:    fp.Tag.Required,
		Separator:   fp.Tag.Sep,
		AllowEmpty:  fp.Tag.AllowEmpty,
	}
	if arg.Description == "" && fp.Tag.Pos != "" {
		arg.Description = fp.Tag.Pos
	}

	if fp.Switch {
		return r.Register(newBinding(arg, ActionWrite, func(*Cursor, string) error {
			field.SetBool(true)
			return nil
		}))
	}
	return Bind(r, arg, fp.formatter(), fieldDest{field, fp.Action})
}

// formatter converts text into a new ElemType value and applies the range
// and choices constraints.
func (fp *FieldPlan) formatter() Formatter[reflect.Value] {
	return func(text string) (reflect.Value, error) {
		v := reflect.New(fp.ElemType).Elem()
		if err := setFieldValue(v, text); err != nil {
			return reflect.Value{}, err
		}
		if (fp.minValue.IsValid() && compareNumeric(v, fp.minValue) < 0) ||
			(fp.maxValue.IsValid() && compareNumeric(v, fp.maxValue) > 0) {
			return reflect.Value{}, &FormatError{Value: text, Details: fp.details.rng}
		}
		if len(fp.choices) > 0 && !containsValue(fp.choices, v) {
			return reflect.Value{}, &FormatError{Value: text, Details: fp.details.choices}
		}
		return v, nil
	}
}

// fieldDest stores converted values into a struct field.
type fieldDest struct {
	field  reflect.Value
	action Action
}

func (d fieldDest) Put(v reflect.Value) {
	switch d.action {
	case ActionAppend:
		d.field.Set(reflect.Append(d.field, v))
	case ActionInsert:
		if d.field.IsNil() {
			d.field.Set(reflect.MakeMap(d.field.Type()))
		}
		d.field.SetMapIndex(v, reflect.Zero(d.field.Type().Elem()))
	default:
		d.field.Set(v)
	}
}

func (d fieldDest) Action() Action { return d.action }

///////////////////////////////////////////////////////////////////////////////
// Plans
///////////////////////////////////////////////////////////////////////////////

func buildPlans(t reflect.Type, index []int) ([]FieldPlan, error) {
	var plans []FieldPlan
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		path := append(append([]int(nil), index...), i)

		tag, ok, err := LookupArgTag(sf)
		if err != nil {
			return nil, err
		}
		if !ok {
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				nested, err := buildPlans(sf.Type, path)
				if err != nil {
					return nil, err
				}
				plans = append(plans, nested...)
			}
			continue
		}
		if !sf.IsExported() {
			return nil, fmt.Errorf("%w: field %s is unexported", ErrInvalidStructDestination, sf.Name)
		}

		fp, err := planField(sf, tag, path)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}
		plans = append(plans, fp)
	}
	return plans, nil
}

func planField(sf reflect.StructField, tag ArgTag, index []int) (FieldPlan, error) {
	fp := FieldPlan{
		Index:    index,
		Name:     sf.Name,
		Tag:      tag,
		Action:   ActionWrite,
		ElemType: sf.Type,
	}

	switch {
	case sf.Type.Kind() == reflect.Slice && sf.Type.Elem().Kind() != reflect.Uint8:
		fp.Action, fp.ElemType = ActionAppend, sf.Type.Elem()
	case isSetType(sf.Type):
		fp.Action, fp.ElemType = ActionInsert, sf.Type.Key()
	}

	if !canConvert(fp.ElemType) {
		return FieldPlan{}, fmt.Errorf("%w: %s", ErrUnsupportedType, fp.ElemType)
	}

	if fp.ElemType.Kind() == reflect.Bool && fp.Action == ActionWrite &&
		tag.Flag != "" && tag.Sep == "" && len(tag.Choices) == 0 {
		fp.Switch = true
		return fp, nil
	}

	if tag.Range != nil {
		if err := fp.planRange(tag.Range); err != nil {
			return FieldPlan{}, err
		}
	}

	if len(tag.Choices) > 0 {
		texts := make([]string, len(tag.Choices))
		for i, c := range tag.Choices {
			v := reflect.New(fp.ElemType).Elem()
			if err := setFieldValue(v, c); err != nil {
				return FieldPlan{}, fmt.Errorf("%w: choice %q: %w", ErrInvalidTagValue, c, err)
			}
			fp.choices = append(fp.choices, v)
			texts[i] = displayValue(v.Interface())
		}
		fp.details.choices = legalValuesMessage(texts)
	}

	return fp, nil
}

func (fp *FieldPlan) planRange(rng *RangeTag) error {
	if !isNumericKind(fp.ElemType.Kind()) {
		return fmt.Errorf("%w: %s", ErrRangeOnNonNumeric, fp.ElemType)
	}

	parse := func(text string) (reflect.Value, error) {
		if text == "" {
			return reflect.Value{}, nil
		}
		v := reflect.New(fp.ElemType).Elem()
		if err := setFieldValue(v, text); err != nil {
			return reflect.Value{}, fmt.Errorf("%w: range bound %q: %w", ErrInvalidTagValue, text, err)
		}
		return v, nil
	}

	var err error
	if fp.minValue, err = parse(rng.Min); err != nil {
		return err
	}
	if fp.maxValue, err = parse(rng.Max); err != nil {
		return err
	}
	if fp.minValue.IsValid() && fp.maxValue.IsValid() && compareNumeric(fp.minValue, fp.maxValue) > 0 {
		return fmt.Errorf("%w: %s..%s", ErrInvalidBounds, rng.Min, rng.Max)
	}

	fp.details.rng = rangeMessage(fp.minValue.IsValid(), fp.maxValue.IsValid(),
		fmt.Sprint(fp.minValue), fmt.Sprint(fp.maxValue))
	return nil
}

// isSetType reports whether t is shaped like Set[T]: a map with an empty
// struct value type.
func isSetType(t reflect.Type) bool {
	return t.Kind() == reflect.Map &&
		t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// compareNumeric compares two values of the same numeric kind.
func compareNumeric(a, b reflect.Value) int {
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	default:
		return cmp.Compare(a.Float(), b.Float())
	}
}

func containsValue(values []reflect.Value, v reflect.Value) bool {
	for _, c := range values {
		if c.Equal(v) {
			return true
		}
	}
	return false
}
