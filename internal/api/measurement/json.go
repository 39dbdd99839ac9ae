package measurement

import "github.com/pquerna/ffjson/ffjson"

func marshalJSON(v interface{}) ([]byte, error) {
	return ffjson.Marshal(v)
}
