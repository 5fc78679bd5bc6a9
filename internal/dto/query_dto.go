package dto

type AskRequest struct {
	Query string `json:"query" validate:"required"`
}

type AskResponse struct {
	Answer    string             `json:"answer"`
	QueryType string             `json:"query_type"`
	Results   []ActivityResponse `json:"results"`
	Count     int                `json:"count"`
}
