package validate

import (
	"errors"
	"sort"

	"affordability-engine/internal/loader"
	"affordability-engine/internal/model"
)

// Records validates in-memory records, e.g. from a request body.
func Records(recs []loader.Record) model.ValidationReport {
	var msgs []model.ValidationMessage
	for _, r := range recs {
		msgs = append(msgs, Record(r)...)
	}
	return newReport(len(recs), msgs)
}

// Dir validates every company file in dir. Unlike the loader, files that
// fail to parse or hold no company are reported instead of aborting or
// being skipped.
func Dir(dir string) (model.ValidationReport, error) {
	files, err := loader.ScanDir(dir)
	if err != nil {
		return model.ValidationReport{}, err
	}

	var msgs []model.ValidationMessage
	for _, f := range files {
		recs, err := loader.Records(f)
		if err != nil {
			code := "INVALID_JSON"
			if errors.Is(err, loader.ErrUnrecognizedFile) {
				code = "UNRECOGNIZED_FILE"
			}
			msgs = append(msgs, model.ValidationMessage{
				Level:   model.LevelError,
				Code:    code,
				File:    f.Name,
				Message: err.Error(),
			})
			continue
		}
		for _, r := range recs {
			msgs = append(msgs, Record(r)...)
		}
	}
	return newReport(len(files), msgs), nil
}

// newReport orders messages errors-first, keeping discovery order within a
// level, and numbers them.
func newReport(filesChecked int, msgs []model.ValidationMessage) model.ValidationReport {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Level == model.LevelError && msgs[j].Level != model.LevelError
	})

	report := model.ValidationReport{
		FilesChecked: filesChecked,
		Messages:     make([]model.ValidationMessage, 0, len(msgs)),
	}
	for _, m := range msgs {
		m.ID = len(report.Messages)
		switch m.Level {
		case model.LevelError:
			report.Errors++
		case model.LevelWarning:
			report.Warnings++
		}
		report.Messages = append(report.Messages, m)
	}
	return report
}
