package logging

import "time"

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Domain field helpers
func Layer(id string) Field {
	return String("layer", id)
}

func NodeType(id string) Field {
	return String("node_type", id)
}

func Relationship(id string) Field {
	return String("relationship", id)
}

func File(path string) Field {
	return String("file", path)
}

func Session(id string) Field {
	return String("session", id)
}

func Count(n int) Field {
	return Int("count", n)
}

func Component(name string) Field {
	return String("component", name)
}
