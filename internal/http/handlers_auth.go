package httpx

import (
	"net/http"

	"github.com/target/banksim-ui/internal/domain/banking"
	"github.com/target/banksim-ui/internal/domain/guard"
	"github.com/target/banksim-ui/internal/service"
)

// Signed-out page metadata.
//
//nolint:gochecknoglobals // read-only page metadata
var (
	loginMeta  = PageMeta{Title: "Sign in - BankSim", PageTitle: "Sign in", CurrentPage: PageLogin}
	signupMeta = PageMeta{Title: "Create account - BankSim", PageTitle: "Create Your Account", CurrentPage: PageSignup}
)

// LoginPage renders the sign-in form. Visitors who are already signed in go home.
// GET /login.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if IdentityFromContext(r.Context()) != nil {
		redirect(w, r, guard.HomePath)
		return
	}
	h.renderAuthPage(w, r, basePageData(r, loginMeta))
}

// Login submits credentials. The backend's reason is never shown; a failed
// sign-in always reads the same.
// POST /login.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	v, ok := VisitorFromContext(r.Context())
	if !ok {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	email := formValue(r, "email")
	password := r.FormValue("password")

	if _, err := v.Session.Login(backendContext(r), email, password); err != nil {
		h.logger().InfoContext(r.Context(), "login rejected", "visitor_id", v.ID, "error", err)
		data := basePageData(r, loginMeta)
		data["ErrorMessage"] = service.MsgLoginFailed
		data["Email"] = email
		h.renderAuthPageStatus(w, r, http.StatusUnauthorized, data)
		return
	}

	redirect(w, r, guard.HomePath)
}

// SignupPage renders the registration form.
// GET /signup.
func (h *UIHandlers) SignupPage(w http.ResponseWriter, r *http.Request) {
	if IdentityFromContext(r.Context()) != nil {
		redirect(w, r, guard.HomePath)
		return
	}
	data := basePageData(r, signupMeta)
	data["Form"] = banking.SignupProfile{Status: "ACTIVE"}
	h.renderAuthPage(w, r, data)
}

// Signup registers a customer and signs them in.
// POST /signup.
func (h *UIHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	v, ok := VisitorFromContext(r.Context())
	if !ok {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	profile := banking.SignupProfile{
		Name:         r.FormValue("name"),
		PhoneNumber:  r.FormValue("phoneNumber"),
		Email:        r.FormValue("email"),
		Address:      r.FormValue("address"),
		CustomerPin:  r.FormValue("customerPin"),
		AadharNumber: r.FormValue("aadharNumber"),
		DOB:          r.FormValue("dob"),
		Status:       r.FormValue("status"),
		Password:     r.FormValue("password"),
	}
	profile.Normalize()

	if _, err := v.Session.Signup(backendContext(r), profile); err != nil {
		h.logger().InfoContext(r.Context(), "signup rejected", "visitor_id", v.ID, "error", err)
		data := basePageData(r, signupMeta)
		data["ErrorMessage"] = h.messages().SignupFailure(err)
		profile.Password = ""
		profile.CustomerPin = ""
		data["Form"] = profile
		h.renderAuthPageStatus(w, r, http.StatusBadRequest, data)
		return
	}

	redirect(w, r, guard.HomePath)
}

// Logout ends the backend session. Local state is cleared even when the
// backend call fails.
// POST /logout.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if v, ok := VisitorFromContext(r.Context()); ok {
		if err := v.Session.Logout(backendContext(r)); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "visitor_id", v.ID, "error", err)
		}
	}
	redirect(w, r, guard.LoginPath)
}
