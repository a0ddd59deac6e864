package http

import (
	"stats-backend/internal/entity"
)

// AddHitRequest — тело POST /hit. Временная метка приходит строкой в формате
// yyyy-MM-dd HH:mm:ss и разбирается на границе.
type AddHitRequest struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

// CommentResponse — представление комментария во внешнем API.
// Маппинг из entity.Comment выполняется явно, без рефлексии.
type CommentResponse struct {
	ID               int64                `json:"id"`
	Text             string               `json:"text"`
	EventID          int64                `json:"eventId"`
	AuthorID         int64                `json:"authorId"`
	AuthorName       string               `json:"authorName"`
	Status           entity.CommentStatus `json:"status"`
	Created          string               `json:"created"`
	Edited           *string              `json:"edited,omitempty"`
	ModeratorMessage *string              `json:"moderatorMessage,omitempty"`
}

func toCommentResponse(comment *entity.Comment) *CommentResponse {
	response := &CommentResponse{
		ID:               comment.ID,
		Text:             comment.Text,
		EventID:          comment.EventID,
		AuthorID:         comment.AuthorID,
		AuthorName:       comment.AuthorName,
		Status:           comment.Status,
		Created:          comment.Created.Format(entity.DateTimeLayout),
		ModeratorMessage: comment.ModeratorMessage,
	}
	if comment.Edited != nil {
		edited := comment.Edited.Format(entity.DateTimeLayout)
		response.Edited = &edited
	}
	return response
}

func toCommentResponses(comments []*entity.Comment) []*CommentResponse {
	responses := make([]*CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, toCommentResponse(comment))
	}
	return responses
}
