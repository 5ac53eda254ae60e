package app

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mail_mock "potholeserv/src/app/mock"
)

func newTestMailer(dialer MessageDialer, store *ArtifactStore) *Mailer {
	return &Mailer{
		dialer: dialer,
		from:   "no-reply@example.com",
		store:  store,
		log:    zerolog.Nop(),
	}
}

func jpegDataURI(data []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
}

func TestResolveAttachments(t *testing.T) {
	store := NewArtifactStore(false, t.TempDir(), zerolog.Nop())
	mailer := newTestMailer(&mail_mock.MockDialer{}, store)

	t.Run("InlineJPEG", func(t *testing.T) {
		atts, statuses := mailer.ResolveAttachments([]string{jpegDataURI([]byte("img"))}, nil)
		require.Len(t, atts, 1)
		assert.Equal(t, "attachment_0.jpeg", atts[0].Filename)
		assert.Equal(t, []byte("img"), atts[0].Data)
		require.Len(t, statuses, 1)
		assert.True(t, statuses[0].Attached)
	})

	t.Run("PNGSubtypeFromHeader", func(t *testing.T) {
		payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("img"))
		atts, _ := mailer.ResolveAttachments([]string{payload}, nil)
		require.Len(t, atts, 1)
		assert.Equal(t, "attachment_0.png", atts[0].Filename)
	})

	t.Run("InvalidBase64Skipped", func(t *testing.T) {
		atts, statuses := mailer.ResolveAttachments(
			[]string{jpegDataURI([]byte("ok")), "data:image/jpeg;base64,!!!not-base64!!!"}, nil)
		require.Len(t, atts, 1)
		require.Len(t, statuses, 2)
		assert.True(t, statuses[0].Attached)
		assert.False(t, statuses[1].Attached)
		assert.Contains(t, statuses[1].Reason, "decode failed")
	})

	t.Run("NonDataURISkipped", func(t *testing.T) {
		atts, statuses := mailer.ResolveAttachments([]string{"http://example.com/a.jpg"}, nil)
		assert.Empty(t, atts)
		require.Len(t, statuses, 1)
		assert.Equal(t, "not a data URI", statuses[0].Reason)
	})

	t.Run("DiskRefRequiresPersistence", func(t *testing.T) {
		atts, statuses := mailer.ResolveAttachments(nil, []string{"/static/results/result_a.jpg"})
		assert.Empty(t, atts)
		require.Len(t, statuses, 1)
		assert.False(t, statuses[0].Attached)
	})
}

func TestResolveAttachmentsFromDisk(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(true, dir, zerolog.Nop())
	require.NoError(t, store.Prepare())
	require.NotEmpty(t, store.SaveResult("a.jpg", []byte("annotated")))
	mailer := newTestMailer(&mail_mock.MockDialer{}, store)

	atts, statuses := mailer.ResolveAttachments(nil, []string{
		"/static/results/result_a.jpg",
		"/static/results/missing.jpg",
	})

	require.Len(t, atts, 1)
	assert.Equal(t, "result_a.jpg", atts[0].Filename)
	assert.Equal(t, []byte("annotated"), atts[0].Data)
	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Attached)
	assert.False(t, statuses[1].Attached)
}

func TestDispatch(t *testing.T) {
	store := NewArtifactStore(false, t.TempDir(), zerolog.Nop())

	t.Run("BrokenAttachmentStillSends", func(t *testing.T) {
		dialer := &mail_mock.MockDialer{}
		dialer.On("DialAndSend", mock.Anything).Return(nil)
		mailer := newTestMailer(dialer, store)

		err := mailer.Dispatch("citizen@example.com", "Potholes", "See attached.",
			[]string{jpegDataURI([]byte("img")), "data:image/jpeg;base64,%%%"}, nil)

		require.NoError(t, err)
		require.Len(t, dialer.Sent, 1)

		var buf bytes.Buffer
		_, err = dialer.Sent[0].WriteTo(&buf)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "attachment_0.jpeg")
		assert.NotContains(t, buf.String(), "attachment_1")
	})

	t.Run("TransportErrorPropagates", func(t *testing.T) {
		dialer := &mail_mock.MockDialer{}
		dialer.On("DialAndSend", mock.Anything).Return(errors.New("dial tcp: connection refused"))
		mailer := newTestMailer(dialer, store)

		err := mailer.Dispatch("citizen@example.com", "Potholes", "body", nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("HeadersSet", func(t *testing.T) {
		dialer := &mail_mock.MockDialer{}
		dialer.On("DialAndSend", mock.Anything).Return(nil)
		mailer := newTestMailer(dialer, store)

		require.NoError(t, mailer.Dispatch("citizen@example.com", "Potholes", "body", nil, nil))
		require.Len(t, dialer.Sent, 1)
		assert.Equal(t, []string{"citizen@example.com"}, dialer.Sent[0].GetHeader("To"))
		assert.Equal(t, []string{"Potholes"}, dialer.Sent[0].GetHeader("Subject"))
	})
}
