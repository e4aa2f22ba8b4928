package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"roombook/auth"
	"roombook/booking"
	"roombook/config"
	"roombook/db"
	"roombook/i18n"
	"roombook/models"
	"roombook/timeslot"

	"github.com/dchest/captcha"
	"github.com/gorilla/csrf"
)

var (
	store *booking.Store
	users auth.Authenticator
	rules = booking.DefaultRules
)

func RegisterHandlers(mux *http.ServeMux, source auth.Authenticator) {
	store = booking.NewStore(db.DB)
	users = source

	mux.HandleFunc("/", IndexHandler)
	mux.HandleFunc("/login", LoginHandler)
	mux.HandleFunc("/logout", LogoutHandler)
	mux.HandleFunc("/list", ListHandler)
	mux.HandleFunc("/edit/{id}", EditHandler)
	mux.HandleFunc("/update/{id}", UpdateHandler)
	mux.HandleFunc("/delete/{id}", DeleteHandler)
}

// requireUser pulls the session identity; without one the request is
// redirected to the login page.
func requireUser(w http.ResponseWriter, r *http.Request) (username, role string, ok bool) {
	username, role = auth.CurrentUser(r)
	if username == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return "", "", false
	}
	return username, role, true
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	ip := getClientIP(r)

	if r.Method == http.MethodPost {
		if !loginLimiter.Allow(ip) {
			auth.Flash(w, r, i18n.T(lang, "TooManyAttempts"))
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		if loginLimiter.NeedsCaptcha(ip) {
			if !captcha.VerifyString(r.FormValue("captcha_id"), r.FormValue("captcha_solution")) {
				loginLimiter.RecordFailure(ip)
				auth.Flash(w, r, i18n.T(lang, "CaptchaWrong"))
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
		}

		user, err := users.Authenticate(r.Context(), r.FormValue("username"), r.FormValue("password"))
		if err != nil {
			loginLimiter.RecordFailure(ip)
			auth.Flash(w, r, i18n.T(lang, "LoginFailed"))
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		loginLimiter.Reset(ip)
		auth.SetSession(w, r, user.Username, user.Role)
		auth.Flash(w, r, i18n.T(lang, "LoginSuccess"))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := map[string]any{}
	if loginLimiter.NeedsCaptcha(ip) {
		data["CaptchaID"] = captcha.New()
	}
	renderTemplate(w, r, "login.html", data)
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	auth.ClearSession(w, r)
	auth.Flash(w, r, i18n.T(lang, "LoggedOut"))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// IndexHandler renders the booking form and accepts new bookings.
func IndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	username, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	lang := i18n.DetectLanguage(r)

	if r.Method == http.MethodPost {
		b := models.Booking{
			Name:      r.FormValue("name"),
			User:      username,
			Date:      r.FormValue("date"),
			StartTime: r.FormValue("start_time"),
			EndTime:   r.FormValue("end_time"),
		}

		if err := store.CreateValidated(r.Context(), &b, rules); err != nil {
			auth.Flash(w, r, rejectionMessage(lang, err))
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		auth.Flash(w, r, i18n.T(lang, "BookingCreated"))
		http.Redirect(w, r, "/list", http.StatusSeeOther)
		return
	}

	renderTemplate(w, r, "index.html", map[string]any{
		"Username": username,
		"Role":     role,
		"Slots":    timeslot.Slots(),
	})
}

func ListHandler(w http.ResponseWriter, r *http.Request) {
	username, role, ok := requireUser(w, r)
	if !ok {
		return
	}

	bookings, err := store.ListAll(r.Context())
	if err != nil {
		log.Printf("Error listing bookings: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	renderTemplate(w, r, "list.html", map[string]any{
		"Username": username,
		"Role":     role,
		"Bookings": bookings,
	})
}

func EditHandler(w http.ResponseWriter, r *http.Request) {
	username, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	lang := i18n.DetectLanguage(r)

	b, ok := fetchAuthorized(w, r, lang, username, role)
	if !ok {
		return
	}

	renderTemplate(w, r, "edit.html", map[string]any{
		"Username": username,
		"Role":     role,
		"Booking":  b,
		"Slots":    timeslot.Slots(),
	})
}

func UpdateHandler(w http.ResponseWriter, r *http.Request) {
	username, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	lang := i18n.DetectLanguage(r)

	b, ok := fetchAuthorized(w, r, lang, username, role)
	if !ok {
		return
	}

	// The owner never changes on edit, even when an admin edits.
	b.Name = r.FormValue("name")
	b.Date = r.FormValue("date")
	b.StartTime = r.FormValue("start_time")
	b.EndTime = r.FormValue("end_time")

	if err := store.UpdateValidated(r.Context(), b, rules); err != nil {
		auth.Flash(w, r, rejectionMessage(lang, err))
		http.Redirect(w, r, fmt.Sprintf("/edit/%d", b.ID), http.StatusSeeOther)
		return
	}

	auth.Flash(w, r, i18n.T(lang, "BookingUpdated"))
	http.Redirect(w, r, "/list", http.StatusSeeOther)
}

func DeleteHandler(w http.ResponseWriter, r *http.Request) {
	username, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	lang := i18n.DetectLanguage(r)

	b, ok := fetchAuthorized(w, r, lang, username, role)
	if !ok {
		return
	}

	if err := store.Delete(r.Context(), b.ID); err != nil {
		auth.Flash(w, r, rejectionMessage(lang, err))
		http.Redirect(w, r, "/list", http.StatusSeeOther)
		return
	}

	auth.Flash(w, r, i18n.T(lang, "BookingDeleted"))
	http.Redirect(w, r, "/list", http.StatusSeeOther)
}

// fetchAuthorized loads the booking named by the {id} path segment and
// applies the owner-or-admin rule. On any failure it queues a flash,
// redirects to the list view and reports false.
func fetchAuthorized(w http.ResponseWriter, r *http.Request, lang, username, role string) (*models.Booking, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		auth.Flash(w, r, i18n.T(lang, "BookingNotFound"))
		http.Redirect(w, r, "/list", http.StatusSeeOther)
		return nil, false
	}

	b, err := store.GetByID(r.Context(), id)
	if err != nil {
		if !errors.Is(err, booking.ErrNotFound) {
			log.Printf("Error loading booking %d: %v", id, err)
		}
		auth.Flash(w, r, rejectionMessage(lang, err))
		http.Redirect(w, r, "/list", http.StatusSeeOther)
		return nil, false
	}

	if !auth.CanModify(username, role, b.User) {
		auth.Flash(w, r, i18n.T(lang, "Forbidden"))
		http.Redirect(w, r, "/list", http.StatusSeeOther)
		return nil, false
	}
	return b, true
}

// rejectionMessage maps store and validation errors onto the flash
// message shown to the user.
func rejectionMessage(lang string, err error) string {
	var conflict *booking.ConflictError
	switch {
	case errors.Is(err, booking.ErrNotAligned):
		return i18n.T(lang, "NotAligned")
	case errors.Is(err, booking.ErrEndNotAfterStart):
		return i18n.T(lang, "EndNotAfterStart")
	case errors.Is(err, booking.ErrTooLong):
		return i18n.T(lang, "TooLong")
	case errors.Is(err, booking.ErrQuotaExceeded):
		return i18n.T(lang, "QuotaExceeded")
	case errors.As(err, &conflict):
		return fmt.Sprintf(i18n.T(lang, "SlotTaken"), conflict.Owner)
	case errors.Is(err, timeslot.ErrBadClock):
		return i18n.T(lang, "InvalidInput")
	case errors.Is(err, booking.ErrNotFound):
		return i18n.T(lang, "BookingNotFound")
	default:
		log.Printf("Unexpected booking error: %v", err)
		return i18n.T(lang, "InternalError")
	}
}

func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	lang := i18n.DetectLanguage(r)

	funcMap := template.FuncMap{
		"T": func(key string) string {
			return i18n.T(lang, key)
		},
	}

	tmpl, err := template.New(name).Funcs(funcMap).ParseFiles("templates/layout.html", "templates/"+name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	m, ok := data.(map[string]any)
	if !ok || m == nil {
		m = map[string]any{}
	}
	if _, exists := m["AppName"]; !exists {
		m["AppName"] = config.AppConfig.AppName
	}
	m["Lang"] = lang
	m["csrfField"] = csrf.TemplateField(r)
	m["Flashes"] = auth.Flashes(w, r)

	tmpl.ExecuteTemplate(w, "layout", m)
}
