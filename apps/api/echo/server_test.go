package echoapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joinquran/backend/core"
	"github.com/joinquran/backend/core/customer"
	"github.com/joinquran/backend/core/review"
	"github.com/joinquran/backend/core/student"
	chatsvc "github.com/joinquran/backend/services/chat"
	emailsvc "github.com/joinquran/backend/services/email"
	prayersvc "github.com/joinquran/backend/services/prayer"
	"github.com/joinquran/backend/storage/jsonstore"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

func newTestServer(t *testing.T, confMods ...func(*core.Config)) (Server, ServerDeps) {
	t.Helper()

	conf := &core.Config{
		Env:              "TEST",
		Debug:            true,
		TestMode:         true,
		AppName:          "JoinQuran",
		DataDir:          t.TempDir(),
		DefaultFromEmail: mail.Address{Name: "JoinQuran", Address: "no-reply@joinquran.test"},
		AdminEmail:       mail.Address{Address: "admin@joinquran.test"},
		Server:           core.ServerConfig{SessionMaxAge: time.Hour},
		Admin:            core.AdminConfig{Username: "admin", Password: "s3cret"},
	}
	for _, mod := range confMods {
		mod(conf)
	}

	studRepo, err := jsonstore.NewStudentRepository(conf)
	require.NoError(t, err)
	revRepo, err := jsonstore.NewReviewRepository(conf)
	require.NoError(t, err)
	custRepo, err := jsonstore.NewCustomerRepository(conf)
	require.NoError(t, err)

	emailsvc.ClearSentMessages()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	deps := ServerDeps{
		Conf:           conf,
		Logger:         nopLogger{},
		DisableReqLogs: true,
		StudentSvc:     student.NewService(studRepo),
		ReviewSvc:      review.NewService(revRepo),
		CustomerSvc:    customer.NewService(custRepo, mailSvc, conf),
		MailSvc:        mailSvc,
		PrayerSvc:      prayersvc.NewService(conf),
		ChatSvc:        chatsvc.NewService(conf),
	}
	return NewServer(deps), deps
}

func newAuthRequest(method, path, token string, data ...[]byte) *http.Request {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func newRequest(method, path string, data ...[]byte) *http.Request {
	return newAuthRequest(method, path, "", data...)
}

func serve(app Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return data
}

func TestHomeAPI(t *testing.T) {
	app, _ := newTestServer(t)

	rec := serve(app, newRequest(http.MethodGet, "/"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to JoinQuran API!", rec.Body.String())
}

func TestAdminLoginAPI(t *testing.T) {
	app, _ := newTestServer(t)

	t.Run("missing fields", func(t *testing.T) {
		rec := serve(app, newRequest(http.MethodPost, "/v1/admin/login", marchallObj(t, echoMap{"username": "admin"})))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "password")
	})

	t.Run("wrong credentials", func(t *testing.T) {
		body := marchallObj(t, AdminLoginRequest{Username: "admin", Password: "nope"})
		rec := serve(app, newRequest(http.MethodPost, "/v1/admin/login", body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"authentication failed"}`, rec.Body.String())
	})

	t.Run("ok", func(t *testing.T) {
		body := marchallObj(t, AdminLoginRequest{Username: "admin", Password: "s3cret"})
		rec := serve(app, newRequest(http.MethodPost, "/v1/admin/login", body))
		require.Equal(t, http.StatusOK, rec.Code)

		var res LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		subject, issuedAt, err := parseSessionToken(res.Token)
		require.NoError(t, err)
		assert.Equal(t, "admin", subject)
		assert.WithinDuration(t, time.Now(), issuedAt, 2*time.Second)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, sessionCookieName, cookies[0].Name)
		assert.Equal(t, res.Token, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("logout clears cookie", func(t *testing.T) {
		rec := serve(app, newRequest(http.MethodDelete, "/v1/admin/login"))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	})
}

func TestAdminLoginAPI_noPasswordConfigured(t *testing.T) {
	app, _ := newTestServer(t, func(conf *core.Config) { conf.Admin.Password = "" })

	// an unset admin password locks the admin API rather than opening it
	body := marchallObj(t, AdminLoginRequest{Username: "admin", Password: ""})
	rec := serve(app, newRequest(http.MethodPost, "/v1/admin/login", body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type echoMap map[string]interface{}

func TestAdminSessionGuard(t *testing.T) {
	app, deps := newTestServer(t)

	staleToken := base64.StdEncoding.EncodeToString(
		[]byte(fmt.Sprintf("admin:%d", time.Now().Add(-2*time.Hour).UnixMilli())))

	tests := []struct {
		name     string
		token    string
		wantCode int
		wantBody string
	}{
		{"no token", "", http.StatusUnauthorized, `{"error":"not authenticated"}`},
		{"garbage token", "!!not-base64!!", http.StatusUnauthorized, `{"error":"not authenticated"}`},
		{"wrong subject", generateSessionToken("intruder"), http.StatusUnauthorized, `{"error":"not authenticated"}`},
		{"expired session", staleToken, http.StatusUnauthorized, `{"error":"session has expired"}`},
		{"valid session", generateSessionToken(deps.Conf.Admin.Username), http.StatusOK, "[]"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := serve(app, newAuthRequest(http.MethodGet, "/v1/admin/students", test.token))
			assert.Equal(t, test.wantCode, rec.Code)
			assert.JSONEq(t, test.wantBody, rec.Body.String())
		})
	}

	t.Run("cookie works too", func(t *testing.T) {
		req := newRequest(http.MethodGet, "/v1/admin/students")
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: generateSessionToken(deps.Conf.Admin.Username)})
		rec := serve(app, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestStudentAPI(t *testing.T) {
	app, deps := newTestServer(t)
	token := generateSessionToken(deps.Conf.Admin.Username)

	t.Run("empty list", func(t *testing.T) {
		rec := serve(app, newAuthRequest(http.MethodGet, "/v1/admin/students", token))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("create requires valid payload", func(t *testing.T) {
		body := marchallObj(t, student.NewStudent{Name: "Sara", Email: "not-an-email", Course: "Tajweed"})
		rec := serve(app, newAuthRequest(http.MethodPost, "/v1/admin/students", token, body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "email")
	})

	var created student.Student
	t.Run("create", func(t *testing.T) {
		body := marchallObj(t, student.NewStudent{Name: "Sara Ali", Email: "sara@test.com", Phone: "123", Course: "Tajweed"})
		rec := serve(app, newAuthRequest(http.MethodPost, "/v1/admin/students", token, body))
		require.Equal(t, http.StatusCreated, rec.Code)

		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "active", created.Status) // default
		assert.WithinDuration(t, time.Now().UTC(), created.RegistrationDate, 2*time.Second)
	})

	t.Run("update", func(t *testing.T) {
		body := marchallObj(t, echoMap{"status": "paused"})
		rec := serve(app, newAuthRequest(http.MethodPut, "/v1/admin/students/"+created.ID, token, body))
		require.Equal(t, http.StatusOK, rec.Code)

		var got student.Student
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "paused", got.Status)
		assert.Equal(t, created.Name, got.Name)
	})

	t.Run("update unknown id", func(t *testing.T) {
		body := marchallObj(t, echoMap{"status": "paused"})
		rec := serve(app, newAuthRequest(http.MethodPut, "/v1/admin/students/nope", token, body))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"student not found"}`, rec.Body.String())
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		rec := serve(app, newAuthRequest(http.MethodDelete, "/v1/admin/students/"+created.ID, token))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = serve(app, newAuthRequest(http.MethodDelete, "/v1/admin/students/"+created.ID, token))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = serve(app, newAuthRequest(http.MethodGet, "/v1/admin/students", token))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func TestReviewAPI(t *testing.T) {
	app, deps := newTestServer(t)
	token := generateSessionToken(deps.Conf.Admin.Username)

	t.Run("rating bounds", func(t *testing.T) {
		body := marchallObj(t, review.NewReview{StudentName: "Ali", Rating: 6, Comment: "!!"})
		rec := serve(app, newRequest(http.MethodPost, "/v1/reviews", body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "rating")
	})

	var submitted review.Review
	t.Run("public submission is pending", func(t *testing.T) {
		body := marchallObj(t, review.NewReview{StudentName: "Ali", Rating: 5, Comment: "Alhamdulillah, great teachers"})
		rec := serve(app, newRequest(http.MethodPost, "/v1/reviews", body))
		require.Equal(t, http.StatusCreated, rec.Code)

		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
		assert.Equal(t, review.StatusPending, submitted.Status)
	})

	t.Run("pending reviews are not public", func(t *testing.T) {
		rec := serve(app, newRequest(http.MethodGet, "/v1/reviews"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("moderation list requires session", func(t *testing.T) {
		rec := serve(app, newRequest(http.MethodGet, "/v1/admin/reviews"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("approve", func(t *testing.T) {
		body := marchallObj(t, echoMap{"status": review.StatusApproved})
		rec := serve(app, newAuthRequest(http.MethodPut, "/v1/admin/reviews/"+submitted.ID, token, body))
		require.Equal(t, http.StatusOK, rec.Code)

		var got review.Review
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, review.StatusApproved, got.Status)
		assert.Equal(t, submitted.Comment, got.Comment)
	})

	t.Run("approved reviews are public", func(t *testing.T) {
		rec := serve(app, newRequest(http.MethodGet, "/v1/reviews"))
		require.Equal(t, http.StatusOK, rec.Code)

		var revs []review.Review
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &revs))
		require.Len(t, revs, 1)
		assert.Equal(t, submitted.ID, revs[0].ID)
	})
}

func TestCustomerAPI(t *testing.T) {
	app, deps := newTestServer(t)

	signupBody := func() customer.NewCustomer {
		return customer.NewCustomer{
			StudentName:  "Ahmed Khan",
			GuardianName: "Imran Khan",
			Email:        "imran@test.com",
			Mobile:       "+441234567890",
			City:         "London",
			Country:      "UK",
			Gender:       "male",
			StudentAge:   9,
			Password:     "V3ry.$ecure.Pwd",
		}
	}

	t.Run("signup", func(t *testing.T) {
		rec := serve(app, newRequest(http.MethodPost, "/v1/customers/signup", marchallObj(t, signupBody())))
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
		assert.NotContains(t, rec.Body.String(), "$2a$")

		var cust customer.Customer
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cust))
		assert.NotEmpty(t, cust.ID)
		assert.Equal(t, customer.StatusActive, cust.Status)
	})

	t.Run("duplicate email", func(t *testing.T) {
		nc := signupBody()
		nc.Email = "IMRAN@test.com"
		rec := serve(app, newRequest(http.MethodPost, "/v1/customers/signup", marchallObj(t, nc)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"email":"an account with this email already exists"}`, rec.Body.String())
	})

	t.Run("weak password", func(t *testing.T) {
		nc := signupBody()
		nc.Email = "other@test.com"
		nc.Password = "12345678"
		rec := serve(app, newRequest(http.MethodPost, "/v1/customers/signup", marchallObj(t, nc)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "numeric")
	})

	t.Run("login", func(t *testing.T) {
		body := marchallObj(t, customer.Credentials{Email: "Imran@Test.com", Password: "V3ry.$ecure.Pwd"})
		rec := serve(app, newRequest(http.MethodPost, "/v1/customers/login", body))
		require.Equal(t, http.StatusOK, rec.Code)

		var res CustomerLoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		subject, _, err := parseSessionToken(res.Token)
		require.NoError(t, err)
		assert.Equal(t, res.Customer.ID, subject)
		assert.Empty(t, res.Customer.PasswordHash)
	})

	t.Run("bad password", func(t *testing.T) {
		body := marchallObj(t, customer.Credentials{Email: "imran@test.com", Password: "nope"})
		rec := serve(app, newRequest(http.MethodPost, "/v1/customers/login", body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"authentication failed"}`, rec.Body.String())
	})

	t.Run("inactive account", func(t *testing.T) {
		ctx := context.Background()
		cust, err := deps.CustomerSvc.GetByEmail(ctx, "imran@test.com")
		require.NoError(t, err)
		_, err = deps.CustomerSvc.Update(ctx, cust.ID, map[string]interface{}{"status": "suspended"})
		require.NoError(t, err)

		body := marchallObj(t, customer.Credentials{Email: "imran@test.com", Password: "V3ry.$ecure.Pwd"})
		rec := serve(app, newRequest(http.MethodPost, "/v1/customers/login", body))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"account is not active"}`, rec.Body.String())
	})
}

func TestSendEmailAPI(t *testing.T) {
	app, deps := newTestServer(t)
	token := generateSessionToken(deps.Conf.Admin.Username)

	t.Run("requires session", func(t *testing.T) {
		rec := serve(app, newRequest(http.MethodPost, "/v1/admin/send-email"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("requires content", func(t *testing.T) {
		body := marchallObj(t, SendEmailRequest{To: "parent@test.com", Subject: "Hi"})
		rec := serve(app, newAuthRequest(http.MethodPost, "/v1/admin/send-email", token, body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "text")
	})

	t.Run("queues message", func(t *testing.T) {
		body := marchallObj(t, SendEmailRequest{To: "Parent@Test.com", Subject: "Schedule", Text: "Your trial class is booked."})
		rec := serve(app, newAuthRequest(http.MethodPost, "/v1/admin/send-email", token, body))
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.JSONEq(t, `{"message":"email queued"}`, rec.Body.String())

		require.Len(t, emailsvc.SentMessages, 1)
		msg := emailsvc.SentMessages[0]
		assert.Equal(t, "parent@test.com", msg.To[0].Address)
		assert.Equal(t, "Schedule", msg.Subject)
	})
}

func TestPrayerAPI(t *testing.T) {
	t.Run("missing coordinates", func(t *testing.T) {
		app, _ := newTestServer(t)
		rec := serve(app, newRequest(http.MethodGet, "/v1/prayer-times"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "latitude and longitude are required")
	})

	t.Run("ok", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "/v1/timings/")
			assert.Equal(t, "51.5", r.URL.Query().Get("latitude"))
			assert.Equal(t, "-0.12", r.URL.Query().Get("longitude"))
			assert.Equal(t, "2", r.URL.Query().Get("method"))
			_, _ = w.Write([]byte(`{
				"code": 200, "status": "OK",
				"data": {"timings": {"Fajr": "04:30", "Dhuhr": "13:05", "Asr": "17:10", "Maghrib": "20:21", "Isha": "22:00", "Sunrise": "06:00"},
				         "date": {"readable": "30 Aug 2026"}}
			}`))
		}))
		defer upstream.Close()

		app, _ := newTestServer(t, func(conf *core.Config) { conf.PrayerApiBaseURL = upstream.URL })
		rec := serve(app, newRequest(http.MethodGet, "/v1/prayer-times?lat=51.5&lng=-0.12"))
		require.Equal(t, http.StatusOK, rec.Code)

		var got prayersvc.DayTimings
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "04:30", got.Timings.Fajr)
		assert.Equal(t, "30 Aug 2026", got.Date.Readable)
	})

	t.Run("upstream failure", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"code": 400, "status": "Bad Request"}`))
		}))
		defer upstream.Close()

		app, _ := newTestServer(t, func(conf *core.Config) { conf.PrayerApiBaseURL = upstream.URL })
		rec := serve(app, newRequest(http.MethodGet, "/v1/prayer-times?lat=51.5&lng=-0.12"))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.JSONEq(t, `{"error":"prayer times lookup failed"}`, rec.Body.String())
	})
}

func TestChatAPI(t *testing.T) {
	t.Run("message required", func(t *testing.T) {
		app, _ := newTestServer(t)
		rec := serve(app, newRequest(http.MethodPost, "/v1/chat", marchallObj(t, echoMap{"message": "  "})))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not configured", func(t *testing.T) {
		app, _ := newTestServer(t)
		rec := serve(app, newRequest(http.MethodPost, "/v1/chat", marchallObj(t, ChatRequest{Message: "Salam"})))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"error":"chat is not available"}`, rec.Body.String())
	})

	t.Run("ok", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			var body struct {
				Input string `json:"input"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Salam", body.Input)
			_, _ = w.Write([]byte(`{"output_text": " Wa alaikum assalam! How can I help? "}`))
		}))
		defer upstream.Close()

		app, _ := newTestServer(t, func(conf *core.Config) {
			conf.ChatApiBaseURL = upstream.URL
			conf.ChatApiKey = "test-key"
		})
		rec := serve(app, newRequest(http.MethodPost, "/v1/chat", marchallObj(t, ChatRequest{Message: "Salam"})))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"reply":"Wa alaikum assalam! How can I help?"}`, rec.Body.String())
	})

	t.Run("upstream failure", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer upstream.Close()

		app, _ := newTestServer(t, func(conf *core.Config) { conf.ChatApiBaseURL = upstream.URL })
		rec := serve(app, newRequest(http.MethodPost, "/v1/chat", marchallObj(t, ChatRequest{Message: "Salam"})))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.JSONEq(t, `{"error":"chat request failed"}`, rec.Body.String())
	})
}
