package dto

import (
	"time"

	"momentum/model"
	"momentum/usecase"
)

type NoteLink struct {
	Href   string `json:"href"`
	Method string `json:"method,omitempty"` // Optional: GET, PATCH, DELETE
}

type NoteResponse struct {
	ID          string              `json:"_id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Date        time.Time           `json:"date"`
	Creator     string              `json:"creator"`
	CreatedAt   time.Time           `json:"createdAt"`
	Done        bool                `json:"done"`
	Links       map[string]NoteLink `json:"_links,omitempty"`
}

type CreateNoteRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Date        time.Time `json:"date" binding:"required"`
	Message     string    `json:"message"`
}

func (r CreateNoteRequest) ToNewNote(creator string) usecase.NewNote {
	return usecase.NewNote{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.Date,
		Message:     r.Message,
		Creator:     creator,
	}
}

// UpdateNoteRequest is a partial patch; omitted fields stay unchanged.
// Identity fields (_id, creator, createdAt) are not accepted.
type UpdateNoteRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Done        *bool      `json:"done,omitempty"`
}

func (r UpdateNoteRequest) ToNoteUpdate() model.NoteUpdate {
	return model.NoteUpdate{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.Date,
		Done:        r.Done,
	}
}

// ToNoteResponse converts a single note
func ToNoteResponse(note *model.Note, links map[string]NoteLink) NoteResponse {
	return NoteResponse{
		ID:          note.ID.Hex(),
		Title:       note.Title,
		Description: note.Description,
		Date:        note.DueDate,
		Creator:     note.Creator,
		CreatedAt:   note.CreatedAt,
		Done:        note.Done,
		Links:       links,
	}
}

// ToNoteResponses converts a slice of notes. The result is never nil so an
// empty list encodes as [].
func ToNoteResponses(notes []*model.Note, getNoteLinks func(note *model.Note) map[string]NoteLink) []NoteResponse {
	responses := make([]NoteResponse, len(notes))
	for i, note := range notes {
		var links map[string]NoteLink
		if getNoteLinks != nil {
			links = getNoteLinks(note)
		}
		responses[i] = ToNoteResponse(note, links)
	}
	return responses
}

// NoteLinks builds the HAL links of a note under basePath.
func NoteLinks(basePath string) func(note *model.Note) map[string]NoteLink {
	return func(note *model.Note) map[string]NoteLink {
		self := basePath + "/" + note.ID.Hex()
		return map[string]NoteLink{
			"self":   {Href: self, Method: "GET"},
			"update": {Href: self, Method: "PATCH"},
			"toggle": {Href: self + "/toggle", Method: "PATCH"},
			"delete": {Href: self, Method: "DELETE"},
		}
	}
}
