package site

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Krimson/babybloom/predictor/internal/advice"
	"github.com/Krimson/babybloom/predictor/internal/classifier"
	"github.com/Krimson/babybloom/predictor/internal/contact"
	"github.com/Krimson/babybloom/predictor/internal/metrics"
)

const (
	msgNotPositive   = "All measurements must be greater than zero"
	msgNotNumber     = "All measurements must be numbers"
	msgContactFailed = "There was an error submitting your message. Please try again."
)

var pageFiles = []string{"home.html", "about.html", "predict.html", "contact.html"}

// Site renders the marketing pages, the prediction form and the contact form.
type Site struct {
	content *Content
	pages   map[string]*template.Template
	contact *contact.Service
	logger  *slog.Logger
	now     func() time.Time
}

// pageData is what every template receives.
type pageData struct {
	Title   string
	Path    string
	Year    int
	Content *Content
	Page    interface{}
}

// PredictForm holds the raw form values so they can be echoed back.
type PredictForm struct {
	Weight            string
	Length            string
	HeadCircumference string
	GestationalAge    string

	ContractionCount  string
	ContractionLength string
	Std               string
	Entropy           string
}

// DefaultPredictForm is the form as first shown.
func DefaultPredictForm() PredictForm {
	return PredictForm{
		Weight:            "0.75",
		Length:            "34.5",
		HeadCircumference: "9.1",
		GestationalAge:    "36",
	}
}

type predictView struct {
	Form       PredictForm
	Error      string
	Result     *classifier.Result
	Advice     advice.Advice
	Disclaimer string
}

type contactView struct {
	Form   contact.Message
	Errors map[string]string
	Notice string
	Error  string
}

func New(contactService *contact.Service, logger *slog.Logger) (*Site, error) {
	if logger == nil {
		logger = slog.Default()
	}

	content, err := LoadContent()
	if err != nil {
		return nil, err
	}

	funcs := template.FuncMap{
		"percent": func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64) + "%"
		},
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		t, err := template.New(name).Funcs(funcs).ParseFS(assets, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Site{
		content: content,
		pages:   pages,
		contact: contactService,
		logger:  logger,
		now:     time.Now,
	}, nil
}

func (s *Site) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", s.Home).Methods("GET")
	router.HandleFunc("/about", s.About).Methods("GET")
	router.HandleFunc("/predict", s.PredictPage).Methods("GET")
	router.HandleFunc("/predict", s.Predict).Methods("POST")
	router.HandleFunc("/contact", s.ContactPage).Methods("GET")
	router.HandleFunc("/contact", s.SubmitContact).Methods("POST")
}

func (s *Site) Home(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home.html", "Home", nil)
}

func (s *Site) About(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "about.html", s.content.About.Title, nil)
}

func (s *Site) PredictPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "predict.html", s.content.Predict.Title, predictView{
		Form: DefaultPredictForm(),
	})
}

// Predict classifies the submitted form and renders the result next to it.
func (s *Site) Predict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "predict.html", s.content.Predict.Title, predictView{
			Form:  DefaultPredictForm(),
			Error: "Please correct the errors in the form",
		})
		return
	}

	form := PredictForm{
		Weight:            r.PostFormValue("weight"),
		Length:            r.PostFormValue("length"),
		HeadCircumference: r.PostFormValue("headCircumference"),
		GestationalAge:    r.PostFormValue("gestationalAge"),
		ContractionCount:  r.PostFormValue("contractionCount"),
		ContractionLength: r.PostFormValue("contractionLength"),
		Std:               r.PostFormValue("std"),
		Entropy:           r.PostFormValue("entropy"),
	}
	view := predictView{Form: form}

	res, err := classifyForm(form)
	if err != nil {
		if ve, ok := classifier.AsValidationError(err); ok {
			metrics.RecordValidationFailure(ve.Field)
		}
		view.Error = formMessage(err)
		s.render(w, r, http.StatusBadRequest, "predict.html", s.content.Predict.Title, view)
		return
	}

	metrics.RecordPrediction(res.Strategy, res.IsPreterm, res.Rule.String(), res.Confidence)

	view.Result = &res
	view.Advice = advice.For(res.IsPreterm)
	view.Disclaimer = advice.Disclaimer
	s.render(w, r, http.StatusOK, "predict.html", s.content.Predict.Title, view)
}

func (s *Site) ContactPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "contact.html", s.content.Contact.Title, contactView{})
}

func (s *Site) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "contact.html", s.content.Contact.Title, contactView{Error: msgContactFailed})
		return
	}

	msg := contact.Message{
		FirstName: r.PostFormValue("firstName"),
		LastName:  r.PostFormValue("lastName"),
		Email:     r.PostFormValue("email"),
		Subject:   r.PostFormValue("subject"),
		Body:      r.PostFormValue("message"),
	}

	_, err := s.contact.Submit(r.Context(), msg)
	if err == nil {
		s.render(w, r, http.StatusOK, "contact.html", s.content.Contact.Title, contactView{Notice: contact.ConfirmationText})
		return
	}

	view := contactView{Form: msg}
	status := http.StatusInternalServerError

	var ve *contact.ValidationError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
		view.Errors = make(map[string]string, len(ve.Fields))
		for _, f := range ve.Fields {
			view.Errors[f.Field] = f.Reason
		}
		view.Error = "Please correct the highlighted fields."
	case errors.Is(err, contact.ErrRateLimited):
		status = http.StatusTooManyRequests
		view.Error = "You have sent too many messages. Please try again in a minute."
	default:
		s.logger.ErrorContext(r.Context(), "contact form submission failed", "error", err)
		view.Error = msgContactFailed
	}
	s.render(w, r, status, "contact.html", s.content.Contact.Title, view)
}

func (s *Site) render(w http.ResponseWriter, r *http.Request, status int, page, title string, view interface{}) {
	t, ok := s.pages[page]
	if !ok {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, "layout", pageData{
		Title:   title,
		Path:    r.URL.Path,
		Year:    s.now().Year(),
		Content: s.content,
		Page:    view,
	})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to render page", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// classifyForm parses the raw values. Empty contraction fields are treated
// as not supplied.
func classifyForm(f PredictForm) (classifier.Result, error) {
	var in classifier.Input

	fields := []struct {
		name string
		raw  string
		dst  **float64
	}{
		{"weight", f.Weight, &in.Weight},
		{"length", f.Length, &in.Length},
		{"headCircumference", f.HeadCircumference, &in.HeadCircumference},
		{"gestationalAge", f.GestationalAge, &in.GestationalAge},
		{"contractionCount", f.ContractionCount, &in.ContractionCount},
		{"contractionLength", f.ContractionLength, &in.ContractionLength},
		{"std", f.Std, &in.Std},
		{"entropy", f.Entropy, &in.Entropy},
	}
	for _, field := range fields {
		raw := strings.TrimSpace(field.raw)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return classifier.Result{}, &classifier.ValidationError{
				Field:      field.name,
				Constraint: "must be a number",
				Value:      raw,
			}
		}
		*field.dst = &v
	}

	m, err := in.Measurement()
	if err != nil {
		return classifier.Result{}, err
	}
	return classifier.Classify(m, nil)
}

func formMessage(err error) string {
	ve, ok := classifier.AsValidationError(err)
	if !ok {
		return "Please correct the errors in the form"
	}

	switch ve.Field {
	case "weight", "length", "headCircumference", "gestationalAge":
		if ve.Constraint == "must be a number" {
			return msgNotNumber
		}
		return msgNotPositive
	}
	return ve.Error()
}
