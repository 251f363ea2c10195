package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"momentum/dto"
	"momentum/middleware"
	"momentum/model"
	"momentum/usecase"
	"momentum/utils"

	"github.com/gin-gonic/gin"
)

const NotesBasePath = "/api/notes"

type NotesService interface {
	List(ctx context.Context) ([]*model.Note, error)
	Get(ctx context.Context, id string) (*model.Note, error)
	Create(ctx context.Context, input usecase.NewNote) (*model.Note, error)
	Update(ctx context.Context, id, requester string, updates model.NoteUpdate) (*model.Note, error)
	ToggleDone(ctx context.Context, id, requester string) (*model.Note, error)
	Delete(ctx context.Context, id, requester string) error
}

var noteLinks = dto.NoteLinks(NotesBasePath)

func GetNotesHandler(c *gin.Context, notesService NotesService) {
	notes, err := notesService.List(c.Request.Context())
	if err != nil {
		utils.ErrorJSON(c, http.StatusConflict, err)
		return
	}

	utils.Success(c, dto.ToNoteResponses(notes, noteLinks))
}

func GetNoteHandler(c *gin.Context, notesService NotesService) {
	id := c.Param("id")

	note, err := notesService.Get(c.Request.Context(), id)
	if err != nil {
		noteFailure(c, id, err)
		return
	}

	utils.Success(c, dto.ToNoteResponse(note, noteLinks(note)))
}

func CreateNoteHandler(c *gin.Context, notesService NotesService) {
	var req dto.CreateNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrNoIdentity)
		return
	}

	note, err := notesService.Create(c.Request.Context(), req.ToNewNote(identity.UserID))
	if err != nil {
		switch utils.KindOf(err) {
		case utils.KindValidation, utils.KindAuth:
			utils.ErrorJSON(c, utils.StatusFor(err), err)
		default:
			utils.ErrorJSON(c, http.StatusConflict, err)
		}
		return
	}

	utils.Created(c, dto.ToNoteResponse(note, noteLinks(note)))
}

func UpdateNoteHandler(c *gin.Context, notesService NotesService) {
	id := c.Param("id")

	var req dto.UpdateNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	note, err := notesService.Update(c.Request.Context(), id, requester(c), req.ToNoteUpdate())
	if err != nil {
		noteFailure(c, id, err)
		return
	}

	utils.Success(c, dto.ToNoteResponse(note, noteLinks(note)))
}

func ToggleNoteDoneHandler(c *gin.Context, notesService NotesService) {
	id := c.Param("id")

	note, err := notesService.ToggleDone(c.Request.Context(), id, requester(c))
	if err != nil {
		if utils.KindOf(err) == utils.KindInternal {
			_ = c.Error(err)
			c.Header(utils.ErrorKindHeader, string(utils.KindInternal))
			c.JSON(http.StatusInternalServerError, utils.MessageOf(err))
			return
		}
		noteFailure(c, id, err)
		return
	}

	utils.Success(c, dto.ToNoteResponse(note, noteLinks(note)))
}

func DeleteNoteHandler(c *gin.Context, notesService NotesService) {
	id := c.Param("id")

	if err := notesService.Delete(c.Request.Context(), id, requester(c)); err != nil {
		noteFailure(c, id, err)
		return
	}

	utils.Message(c, "Note deleted successfully")
}

func requester(c *gin.Context) string {
	identity, _ := middleware.CurrentIdentity(c)
	return identity.UserID
}

// noteFailure maps a note operation error onto its response. Unknown and
// malformed identifiers answer 404 in plain text.
func noteFailure(c *gin.Context, id string, err error) {
	if errors.Is(err, utils.ErrInvalidNoteID) || errors.Is(err, utils.ErrNoteNotFound) {
		utils.ErrorText(c, http.StatusNotFound, err, fmt.Sprintf("no note is available with id:%s", id))
		return
	}
	utils.ErrorJSON(c, utils.StatusFor(err), err)
}
