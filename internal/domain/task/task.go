package task

import (
	"encoding/json"
	"fmt"
)

// Task is a unit of work carried on a queue stream. TaskType names the
// stream, TaskValue is the serialized payload.
type Task interface {
	TaskType() string
	TaskValue() ([]byte, error)
}

// DefaultTaskValue provides a common implementation for TaskValue
func DefaultTaskValue(task interface{}) ([]byte, error) {
	return json.Marshal(task)
}

func UnmarshalTask[T Task](data []byte) (T, error) {
	var t T
	if err := json.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("failed to unmarshal task payload: %w", err)
	}
	return t, nil
}
