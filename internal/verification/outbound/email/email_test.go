package email

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/trimly/internal/pkg/clock"
	"github.com/shandysiswandi/trimly/internal/pkg/instrument"
	"github.com/shandysiswandi/trimly/internal/pkg/mail"
	"github.com/shandysiswandi/trimly/internal/pkg/storage"
)

type captureMail struct {
	msgs []mail.Message
}

func (c *captureMail) Send(_ context.Context, msg mail.Message) error {
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *captureMail) Close() error { return nil }

type oneObject struct {
	body string
}

func (o oneObject) GetObject(_ context.Context, bucket, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	if key != "otp.html" {
		return nil, storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return io.NopCloser(strings.NewReader(o.body)), storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(o.body))}, nil
}

func (o oneObject) StatObject(ctx context.Context, bucket, key string) (storage.ObjectInfo, error) {
	_, info, err := o.GetObject(ctx, bucket, key)
	return info, err
}

func (oneObject) Close() error { return nil }

func TestSendCode_DefaultTemplate(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	client := &captureMail{}

	m, err := New(client, clock.Func(func() time.Time { return now }), instrument.NewNoop(), Options{})
	require.NoError(t, err)

	require.NoError(t, m.SendCode(context.Background(), "ana@example.com", "482913", now.Add(5*time.Minute)))
	require.Len(t, client.msgs, 1)

	msg := client.msgs[0]
	assert.Equal(t, []string{"ana@example.com"}, msg.To)
	assert.Equal(t, defaultSubject, msg.Subject)
	assert.Contains(t, msg.HTMLBody, "482913")
	assert.Contains(t, msg.HTMLBody, "5 minutes (08:05 UTC)")
	assert.Contains(t, msg.TextBody, "482913")
}

func TestLoadTemplate(t *testing.T) {
	ctx := context.Background()
	stg := oneObject{body: "<b>{{.Code}}</b> for {{.Email}}"}

	src, err := LoadTemplate(ctx, nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplate, src)

	src, err = LoadTemplate(ctx, stg, "mail", "otp.html")
	require.NoError(t, err)

	client := &captureMail{}
	m, err := New(client, clock.New(), instrument.NewNoop(), Options{Subject: "Code", Template: src})
	require.NoError(t, err)
	require.NoError(t, m.SendCode(ctx, "<x>@example.com", "111111", time.Now().Add(time.Minute)))
	assert.Equal(t, "<b>111111</b> for &lt;x&gt;@example.com", client.msgs[0].HTMLBody)
	assert.Equal(t, "Code", client.msgs[0].Subject)

	_, err = LoadTemplate(ctx, stg, "mail", "missing.html")
	require.ErrorIs(t, err, storage.ErrObjectNotFound)

	_, err = LoadTemplate(ctx, oneObject{body: "  "}, "mail", "otp.html")
	require.Error(t, err)
}

func TestNew_BadTemplate(t *testing.T) {
	_, err := New(&captureMail{}, clock.New(), instrument.NewNoop(), Options{Template: "{{.Code"})
	require.Error(t, err)
}
