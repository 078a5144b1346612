package httpx

import (
	"net/http"
	"strings"

	"github.com/target/banksim-ui/internal/domain/auth"
	"github.com/target/banksim-ui/internal/domain/banking"
	"github.com/target/banksim-ui/internal/domain/guard"
)

// Profile messages.
const (
	MsgProfileUpdated      = "Profile updated successfully!"
	MsgProfileUpdateFailed = "Failed to update profile"
)

//nolint:gochecknoglobals // read-only page metadata
var profileMeta = PageMeta{Title: "Profile - BankSim", PageTitle: "My Profile", CurrentPage: PageProfile}

// Profile shows the cached identity and the edit form.
// GET /profile.
func (h *UIHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, profileMeta).Build()
	if id := IdentityFromContext(r.Context()); id != nil {
		data["Profile"] = *id
	}
	h.renderPage(w, r, data)
}

// UpdateProfile saves the signed-in customer's contact details. On success the
// cached identity is patched locally; it is not re-read from the backend.
// POST /profile.
func (h *UIHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	api, ok := h.api(w, r)
	if !ok {
		return
	}
	v, _ := VisitorFromContext(r.Context())
	me := v.Session.Snapshot().Identity
	if me == nil {
		redirect(w, r, guard.LoginPath)
		return
	}

	update := banking.CustomerUpdate{
		CustomerID:  me.ID,
		Name:        formValue(r, "name"),
		PhoneNumber: formValue(r, "phoneNumber"),
		Email:       formValue(r, "email"),
		Address:     formValue(r, "address"),
		Status:      me.Status,
	}
	if update.Email == "" {
		update.Email = me.Email
	}

	draft := *me
	draft.Name, draft.PhoneNumber, draft.Email, draft.Address = update.Name, update.PhoneNumber, update.Email, update.Address

	res, err := api.UpdateCustomer(backendContext(r), update)
	if err != nil {
		h.logger().InfoContext(r.Context(), "profile update failed", "customer_id", me.ID, "error", err)
		data := NewTemplateData(r, profileMeta).
			WithError(h.message(err, MsgProfileUpdateFailed)).
			With("Profile", draft).
			Build()
		h.renderPage(w, r, data)
		return
	}

	updated, err := v.Session.UpdateIdentity(auth.IdentityPatch{
		Name:        &update.Name,
		PhoneNumber: &update.PhoneNumber,
		Email:       &update.Email,
		Address:     &update.Address,
	})
	if err != nil {
		// Signed out concurrently; the backend update still stands.
		updated = draft
	}

	msg := res.Message
	if strings.TrimSpace(msg) == "" {
		msg = MsgProfileUpdated
	}
	triggerToast(w, msg, "success")
	// Rebuild after the patch so the header greets the new name.
	data := NewTemplateData(r, profileMeta).WithSuccess(msg).With("Profile", updated).Build()
	h.renderPage(w, r, data)
}
