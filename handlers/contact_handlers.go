package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/web/models"
)

// SubmissionAppender persists one contact-form submission.
type SubmissionAppender interface {
	Append(sub models.ContactSubmission) error
}

type ContactHandlers struct {
	Submissions SubmissionAppender
}

func NewContactHandlers(submissions SubmissionAppender) *ContactHandlers {
	return &ContactHandlers{Submissions: submissions}
}

// SubmitForm validates the posted form and appends it to the sinks. Nothing
// is written on a validation failure.
func (h *ContactHandlers) SubmitForm(c *gin.Context) {
	var form models.ContactForm
	if err := c.ShouldBind(&form); err != nil {
		log.Printf("SubmitForm: invalid submission: %v", err)
		c.HTML(http.StatusBadRequest, "contact.html", gin.H{
			"Error": "Please fill in your name, a valid email address, and a message.",
		})
		return
	}

	sub := models.ContactSubmission{
		Name:        form.Name,
		Email:       form.Email,
		Message:     form.Message,
		SubmittedAt: time.Now().UTC(),
	}
	if err := h.Submissions.Append(sub); err != nil {
		log.Printf("SubmitForm: failed to save submission: %v", err)
		c.HTML(http.StatusInternalServerError, "contact.html", gin.H{
			"Error": "Something went wrong saving your message. Please try again.",
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/thankyou")
}
