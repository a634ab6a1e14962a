package route

import "fmt"

// ExpandAliases normalizes an alias specification into an ordered list of paths.
// A nil spec yields no aliases. Anything other than a string or a list of
// non-empty strings is an error.
func ExpandAliases(spec interface{}) ([]string, error) {
	switch v := spec.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, fmt.Errorf("alias must not be empty")
		}
		return []string{v}, nil
	case []string:
		return checkAliases(v)
	case []interface{}:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("alias[%d]: unknown alias type %T", i, item)
			}
			out = append(out, s)
		}
		return checkAliases(out)
	default:
		return nil, fmt.Errorf("unknown alias type %T", spec)
	}
}

func checkAliases(list []string) ([]string, error) {
	for i, s := range list {
		if s == "" {
			return nil, fmt.Errorf("alias[%d] must not be empty", i)
		}
	}
	return list, nil
}
