package localfs

import "encoding/json"

func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func unmarshalJSON(data []byte, dst interface{}) error {
	return json.Unmarshal(data, dst)
}
