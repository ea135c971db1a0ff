package cereal

import (
	"bytes"
)

/*
	Replaces leading tabs with two spaces each, line by line.

	Yaml refuses tab indentation outright, and config files authored by
	humans will contain tabs anyway, so we normalize before parsing.
	All ascii transforms, so no string conversions needed; it is an
	expansion though, so reallocation is unavoidable.
*/
func Tab2space(x []byte) []byte {
	lines := bytes.Split(x, []byte{'\n'})
	buf := bytes.Buffer{}
	for i, line := range lines {
		n := 0
		for ; n < len(line) && line[n] == '\t'; n++ {
			buf.Write([]byte{' ', ' '})
		}
		buf.Write(line[n:])
		if i != len(lines)-1 {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

/*
	Recursively converts `map[interface{}]interface{}` (which is what the
	yaml unmarshaller hands back) into `map[string]interface{}` so the
	value can be fed onward to codecs that only accept string keys.
*/
func StringifyMapKeys(value interface{}) interface{} {
	switch value := value.(type) {
	case map[interface{}]interface{}:
		next := make(map[string]interface{}, len(value))
		for k, v := range value {
			next[k.(string)] = StringifyMapKeys(v)
		}
		return next
	case []interface{}:
		for i := 0; i < len(value); i++ {
			value[i] = StringifyMapKeys(value[i])
		}
		return value
	default:
		return value
	}
}
