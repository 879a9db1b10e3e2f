package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/satheeshds/condo/auth"
	"github.com/satheeshds/condo/models"
)

// LoginRequest carries credentials. Username may also be the email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token
// @Summary      Log in
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  Response{data=auth.LoginResult}
// @Failure      401   {object}  Response
// @Router       /login [post]
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	res, err := a.Accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Register creates an account
// @Summary      Register account
// @Description  Admin only. Residents are attached to their unit, which is created when unknown.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      models.RegisterInput  true  "Account data"
// @Success      201   {object}  Response{data=models.Account}
// @Failure      400   {object}  Response
// @Failure      403   {object}  Response
// @Failure      409   {object}  Response
// @Router       /register [post]
// @Security     BearerAuth
func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	var input models.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	acct, err := a.Accounts.Register(r.Context(), auth.PrincipalFrom(r.Context()), input)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, acct)
}
