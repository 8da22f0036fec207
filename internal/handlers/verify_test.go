package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/serroba/shortlink-go/internal/handlers"
	"github.com/serroba/shortlink-go/internal/shortlink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testBaseURL = "https://sho.rt"

func TestVerifyHandler_Verify(t *testing.T) {
	t.Run("activates the record and shows the short url", func(t *testing.T) {
		repo := newMockRepo()
		repo.consumeResult = "WXaYZ"

		handler := handlers.NewVerifyHandler(repo, testBaseURL, zap.NewNop())

		resp, err := handler.Verify(context.Background(), &handlers.VerifyRequest{Code: "code1234"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, "code1234", repo.consumedCode)
		assert.Equal(t, int64(1), repo.verifiedID)
		assert.Equal(t, "WXYZ", repo.verifiedKey)
		assert.Contains(t, string(resp.Body), testBaseURL+"/WXaYZ")
	})

	t.Run("unknown code renders the failure page", func(t *testing.T) {
		repo := newMockRepo()
		repo.consumeErr = shortlink.ErrNotFound

		handler := handlers.NewVerifyHandler(repo, testBaseURL, zap.NewNop())

		resp, err := handler.Verify(context.Background(), &handlers.VerifyRequest{Code: "nope"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.Status)
		assert.Contains(t, string(resp.Body), "Verification failed")
		assert.Zero(t, repo.verifiedID)
	})

	t.Run("store failure renders the error page", func(t *testing.T) {
		repo := newMockRepo()
		repo.consumeErr = errMock

		handler := handlers.NewVerifyHandler(repo, testBaseURL, zap.NewNop())

		resp, err := handler.Verify(context.Background(), &handlers.VerifyRequest{Code: "code1234"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.Status)
		assert.Contains(t, string(resp.Body), "Something went wrong")
	})

	t.Run("malformed stored key renders the error page", func(t *testing.T) {
		repo := newMockRepo()
		repo.consumeResult = "ab"

		handler := handlers.NewVerifyHandler(repo, testBaseURL, zap.NewNop())

		resp, err := handler.Verify(context.Background(), &handlers.VerifyRequest{Code: "code1234"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.Status)
		assert.Zero(t, repo.verifiedID)
	})

	t.Run("mark verified failure renders the error page", func(t *testing.T) {
		repo := newMockRepo()
		repo.consumeResult = "WXaYZ"
		repo.markVerifiedErr = errMock

		handler := handlers.NewVerifyHandler(repo, testBaseURL, zap.NewNop())

		resp, err := handler.Verify(context.Background(), &handlers.VerifyRequest{Code: "code1234"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.Status)
	})
}
