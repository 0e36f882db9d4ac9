package store

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"

	"jobradar/internal/job"
)

// Job files appear in three shapes: a bare list of records, a wrapper
// object with a "jobs" key, and a single record. The ambiguity is
// resolved here, once, at the file-reading boundary; everything
// downstream sees only the normalized record list.

type wrapper struct {
	Jobs []map[string]any `json:"jobs"`
}

func decodeRecords(data []byte) ([]*job.Job, error) {
	var raw []map[string]any

	var list []map[string]any
	if err := json.Unmarshal(data, &list); err == nil {
		raw = list
	} else {
		var wrapped wrapper
		if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Jobs != nil {
			raw = wrapped.Jobs
		} else {
			var single map[string]any
			if err := json.Unmarshal(data, &single); err != nil {
				return nil, fmt.Errorf("unrecognized job file shape: %w", err)
			}
			raw = []map[string]any{single}
		}
	}

	jobs := make([]*job.Job, 0, len(raw))
	for _, record := range raw {
		j, err := decodeRecord(record)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}

	return jobs, nil
}

// decodeRecord tolerates schema drift in stored files: unknown keys are
// ignored and fields that some collectors wrote as a bare string (such as
// requirements) are coerced into the canonical slice form.
func decodeRecord(record map[string]any) (*job.Job, error) {
	var j job.Job

	cfg := &mapstructure.DecoderConfig{
		Result:           &j,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			stringToSliceHook,
		),
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(record); err != nil {
		return nil, fmt.Errorf("decode job record: %w", err)
	}

	return &j, nil
}

func stringToSliceHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice || to.Elem().Kind() != reflect.String {
		return data, nil
	}
	s := data.(string)
	if s == "" {
		return []string(nil), nil
	}
	return []string{s}, nil
}
