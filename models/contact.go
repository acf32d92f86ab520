package models

import "time"

// ContactForm is the browser-submitted payload. All three fields are
// required; binding failures reject the request before anything is written.
type ContactForm struct {
	Name    string `form:"name" binding:"required"`
	Email   string `form:"email" binding:"required,email"`
	Message string `form:"message" binding:"required"`
}

// ContactSubmission is what actually lands in the sinks: the form fields
// plus the server-side submission timestamp.
type ContactSubmission struct {
	Name        string
	Email       string
	Message     string
	SubmittedAt time.Time
}
