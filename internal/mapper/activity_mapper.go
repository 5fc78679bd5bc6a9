package mapper

import (
	"encoding/json"
	"strings"

	"ai-lifeos-be/internal/entity"
	"ai-lifeos-be/internal/model"
	"ai-lifeos-be/pkg/inference"

	"gorm.io/datatypes"
)

type ActivityMapper struct{}

func NewActivityMapper() *ActivityMapper {
	return &ActivityMapper{}
}

func (m *ActivityMapper) ToEntity(a *model.Activity) *entity.Activity {
	if a == nil {
		return nil
	}

	var analysis *inference.AnalysisResult
	if len(a.Analysis) > 0 {
		var parsed inference.AnalysisResult
		if err := json.Unmarshal(a.Analysis, &parsed); err == nil {
			parsed.Normalize()
			analysis = &parsed
		}
	}

	var tags []string
	if a.Tags != "" {
		tags = strings.Split(a.Tags, ",")
	}

	return &entity.Activity{
		Id:             a.Id,
		Timestamp:      a.Timestamp,
		Modality:       a.Modality,
		AppName:        a.AppName,
		WindowTitle:    a.WindowTitle,
		ScreenshotPath: a.ScreenshotPath,
		AudioPath:      a.AudioPath,
		Transcription:  a.Transcription,
		Analysis:       analysis,
		Tags:           tags,
		Priority:       a.Priority,
		CreatedAt:      a.CreatedAt,
	}
}

func (m *ActivityMapper) ToModel(a *entity.Activity) *model.Activity {
	if a == nil {
		return nil
	}

	var analysisJSON datatypes.JSON
	if a.Analysis != nil {
		if raw, err := json.Marshal(a.Analysis); err == nil {
			analysisJSON = datatypes.JSON(raw)
		}
	}

	priority := a.Priority
	if priority == "" {
		priority = inference.PriorityLow
	}

	return &model.Activity{
		Id:             a.Id,
		Timestamp:      a.Timestamp,
		Modality:       a.Modality,
		AppName:        a.AppName,
		WindowTitle:    a.WindowTitle,
		ScreenshotPath: a.ScreenshotPath,
		AudioPath:      a.AudioPath,
		Transcription:  a.Transcription,
		Analysis:       analysisJSON,
		Tags:           strings.Join(a.Tags, ","),
		Priority:       priority,
		CreatedAt:      a.CreatedAt,
	}
}

func (m *ActivityMapper) ToEntities(activities []*model.Activity) []*entity.Activity {
	entities := make([]*entity.Activity, len(activities))
	for i, a := range activities {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
