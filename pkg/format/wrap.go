package format

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrEmptyIdentifier is recorded when a nil value is wrapped as an identifier.
var ErrEmptyIdentifier = errors.New("cannot wrap a nil identifier")

// Wrap quotes an identifier for the formatter's dialect.
//
// Numeric scalars are returned unquoted, raw fragments and sub-builders are
// spliced verbatim, and callbacks compile to a parenthesized sub-query. Any
// other scalar is converted to a string and quoted segment by segment:
//
//	f.Wrap(format.ValueOf("users"))           // `users`
//	f.Wrap(format.ValueOf("u.id"))            // `u`.`id`
//	f.Wrap(format.ValueOf("u.id as user_id")) // `u`.`id` as `user_id`
//	f.Wrap(format.ValueOf(42))                // 42
func (f *Formatter) Wrap(v Value) string {
	switch v := v.(type) {
	case Scalar:
		if v.V == nil {
			f.addError(ErrEmptyIdentifier)
			return ""
		}

		if num, ok := numeric(v.V); ok {
			return num
		}

		return f.wrapString(fmt.Sprint(v.V))
	case Callback:
		return "(" + f.CompileCallback(v, DefaultMethod) + ")"
	case nil:
		f.addError(ErrEmptyIdentifier)
		return ""
	default:
		sql, _ := f.CheckRaw(v, false)
		return sql
	}
}

// Columnize wraps each target and joins the results with ", ".
func (f *Formatter) Columnize(targets ...Value) string {
	columns := make([]string, len(targets))
	for i, t := range targets {
		columns[i] = f.Wrap(t)
	}

	return strings.Join(columns, ", ")
}

// wrapString splits off an alias first, then quotes each dotted segment.
func (f *Formatter) wrapString(value string) string {
	if i := aliasIndex(value); i != -1 {
		return f.wrapString(value[:i]) + " as " + f.wrapString(value[i+len(" as "):])
	}

	segments := strings.Split(value, ".")
	for i, segment := range segments {
		segments[i] = f.dialect.QuoteSegment(segment)
	}

	return strings.Join(segments, ".")
}

// aliasIndex returns the byte offset of the first " as " in s, compared
// case-insensitively, or -1.
func aliasIndex(s string) int {
	for i := 0; i+4 <= len(s); i++ {
		if s[i] == ' ' && s[i+3] == ' ' && s[i+1]|0x20 == 'a' && s[i+2]|0x20 == 's' {
			return i
		}
	}

	return -1
}

// numeric formats v when its kind is an integer or float, including named
// types such as `type ID int64`. String methods are ignored.
func numeric(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, rv.Type().Bits()), true
	default:
		return "", false
	}
}
