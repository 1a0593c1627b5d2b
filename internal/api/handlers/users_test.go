package handlers_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/ivanquesadapalmero/planazo-backend/internal/api/dto"
	"github.com/ivanquesadapalmero/planazo-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestUserHandler_Me(t *testing.T) {
	s := newTestServer(t)

	rr := s.get(t, "/api/users/me", s.Token)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp dto.UserResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, s.User.ID, resp.ID)
	assert.Equal(t, s.User.Email, resp.Email)

	testutil.AssertStatus(t, s.get(t, "/api/users/me", ""), http.StatusUnauthorized)
}

func TestUserHandler_UpdateMe(t *testing.T) {
	s := newTestServer(t)

	body := map[string]string{"name": "Lucía", "bio": "Montaña y café"}
	rr := s.do(t, http.MethodPut, "/api/users/me", body, s.Token)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp dto.UserResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, "Lucía", resp.Name)
	assert.Equal(t, "Montaña y café", resp.Bio)

	t.Run("omitted fields are kept", func(t *testing.T) {
		rr := s.do(t, http.MethodPut, "/api/users/me", map[string]string{"profilePicture": "https://img.example.com/l.png"}, s.Token)
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp dto.UserResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Lucía", resp.Name)
		assert.Equal(t, "https://img.example.com/l.png", resp.ProfilePicture)
	})
}

func TestUserHandler_DeleteMe(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodDelete, "/api/users/me", nil, s.Token)
	testutil.AssertStatus(t, rr, http.StatusOK)

	testutil.AssertStatus(t, s.get(t, "/api/users/me", s.Token), http.StatusUnauthorized)

	login := s.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": s.User.Email, "password": testutil.TestPassword}, "")
	testutil.AssertStatus(t, login, http.StatusUnauthorized)
}

func TestUserHandler_Get(t *testing.T) {
	s := newTestServer(t)

	rr := s.get(t, "/api/users/"+s.User.ID.String(), "")
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp dto.UserResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, s.User.Name, resp.Name)
	assert.Empty(t, resp.Email, "public profile hides the e-mail address")

	testutil.AssertStatus(t, s.get(t, "/api/users/"+uuid.NewString(), ""), http.StatusNotFound)
	testutil.AssertStatus(t, s.get(t, "/api/users/42", ""), http.StatusBadRequest)
}
