package util

// Param is the broadcast channel data type
type Param struct {
	Key string
	Val interface{}
}

// UniqueID returns unique identifier for parameter key
func (p Param) UniqueID() string {
	return p.Key
}
