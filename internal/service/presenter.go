package service

import (
	"ai-lifeos-be/internal/dto"
	"ai-lifeos-be/internal/entity"
	"ai-lifeos-be/pkg/inference"
)

func toAnalysisResponse(a *entity.Activity) dto.AnalysisResponse {
	res := dto.AnalysisResponse{
		Issues:   []string{},
		Tags:     []string{},
		Priority: inference.PriorityLow,
	}
	if a.Analysis != nil {
		res.Activity = a.Analysis.Activity
		res.Intent = a.Analysis.Intent
		res.Issues = a.Analysis.Issues
		res.ShouldInterrupt = a.Analysis.ShouldInterrupt
		res.InterruptMessage = a.Analysis.InterruptMessage
		res.Tags = a.Analysis.Tags
		res.Priority = a.Analysis.Priority
	}
	return res
}

func ToActivityResponse(a *entity.Activity) dto.ActivityResponse {
	return dto.ActivityResponse{
		Id:          a.Id,
		Timestamp:   a.Timestamp,
		Modality:    a.Modality,
		AppName:     a.AppName,
		WindowTitle: a.WindowTitle,
		Description: a.Description(),
		Tags:        a.Tags,
		Priority:    a.Priority,
		Analysis:    toAnalysisResponse(a),
	}
}

func ToActivityResponses(activities []*entity.Activity) []dto.ActivityResponse {
	out := make([]dto.ActivityResponse, len(activities))
	for i, a := range activities {
		out[i] = ToActivityResponse(a)
	}
	return out
}

func toAlertResponse(e *entity.AuditEvent) dto.AlertResponse {
	return dto.AlertResponse{
		Id:                e.Id,
		Timestamp:         e.Timestamp,
		AlertType:         e.AlertType,
		Message:           e.Content,
		Priority:          e.Priority,
		RelatedActivityId: e.RelatedActivityId,
	}
}
