package startbot

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/matheuscscp/splitbill/config"
	_ "github.com/matheuscscp/splitbill/logging"
	"github.com/matheuscscp/splitbill/services/events"
	"github.com/matheuscscp/splitbill/services/secrets"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type (
	// Handler serves the start page and starts the bot on POST.
	Handler struct {
		conf          *config.StartBot
		eventsService events.Service
		now           func() time.Time
	}

	controller struct {
		*Handler
		w http.ResponseWriter
		r *http.Request
	}
)

const (
	httpHeaderAuthorization = "Authorization"
	httpHeaderContentType   = "Content-Type"

	tokenTTL = 30 * 24 * time.Hour
)

var (
	errInvalidUser     = errors.New("invalid user")
	errInvalidPassword = errors.New("invalid password")
	errInvalidRealm    = errors.New("invalid authentication realm")
	errInvalidToken    = errors.New("invalid token")

	jwtSigningMethod = jwt.SigningMethodHS256
)

// Run serves one request of the start-bot website.
func Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// load config
	var conf config.StartBot
	if err := config.Load(&conf); err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}

	// read jwt secret
	secretsService, err := secrets.NewService(ctx)
	if err != nil {
		logrus.Fatalf("error creating secrets service: %v", err)
	}
	defer secretsService.Close()
	if conf.JWTSecret, err = secretsService.ReadBinary(ctx, conf.JWTSecretID); err != nil {
		logrus.Fatalf("error reading jwt secret: %v", err)
	}

	// create events service
	eventsService, err := events.NewService(ctx, conf.ProjectID)
	if err != nil {
		logrus.Fatalf("error creating events service: %v", err)
	}
	defer eventsService.Close()

	NewHandler(&conf, eventsService).ServeHTTP(w, r)
}

// NewHandler ...
func NewHandler(conf *config.StartBot, eventsService events.Service) *Handler {
	return &Handler{conf: conf, eventsService: eventsService, now: time.Now}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	(&controller{Handler: h, w: w, r: r}).handleRequest()
}

func (c *controller) handleRequest() {
	// handle get (public)
	if c.r.Method == http.MethodGet {
		c.sendPage()
		return
	}
	// handle non-post (not supported)
	if c.r.Method != http.MethodPost {
		c.replyStatusCode(http.StatusMethodNotAllowed)
		return
	}
	// post

	var user string
	var err error
	if !c.hasAuthentication() {
		if user, err = c.checkUserAndPassword(); err != nil {
			switch {
			case errors.Is(err, errInvalidUser):
				logrus.Warn("invalid user")
				c.replyStatusCode(http.StatusUnprocessableEntity)
			case errors.Is(err, errInvalidPassword):
				logrus.Warn("invalid password")
				c.replyStatusCode(http.StatusUnauthorized)
			default:
				c.replyError(http.StatusBadRequest, err)
			}
			return
		}
	} else if user, err = c.checkAuthentication(); err != nil {
		logrus.Warnf("invalid authentication: %v", err)
		c.replyStatusCode(http.StatusUnauthorized)
		return
	}

	if err := c.startBot(user); err != nil {
		c.replyError(http.StatusInternalServerError, err)
		return
	}

	if !c.hasAuthentication() {
		c.sendNewJWT(user)
	} else {
		c.replyStatusCode(http.StatusCreated)
	}
}

func (c *controller) hasAuthentication() bool {
	return c.r.Header.Get(httpHeaderAuthorization) != ""
}

func (c *controller) sendPage() {
	c.w.Header().Set(httpHeaderContentType, "text/html; charset=utf-8")
	c.writeHTTP("%s", startPage)
}

func (c *controller) sendNewJWT(user string) {
	token := jwt.NewWithClaims(jwtSigningMethod, jwt.MapClaims{
		"sub": user,
		"exp": c.now().Add(tokenTTL).Unix(),
	})
	tokenString, err := token.SignedString(c.conf.JWTSecret)
	if err != nil {
		c.replyError(http.StatusInternalServerError, fmt.Errorf("error signing jwt token: %w", err))
		return
	}
	b, err := json.Marshal(map[string]string{"auth_token": tokenString})
	if err != nil {
		c.replyError(http.StatusInternalServerError, fmt.Errorf("error marshaling jwt response: %w", err))
		return
	}
	c.w.Header().Set(httpHeaderContentType, "application/json")
	c.w.WriteHeader(http.StatusCreated)
	c.writeHTTP("%s", b)
}

func (c *controller) checkAuthentication() (string, error) {
	// fetch token from request
	const realm = "Bearer "
	authn := c.r.Header.Get(httpHeaderAuthorization)
	if !strings.HasPrefix(authn, realm) {
		return "", errInvalidRealm
	}
	tokenString := authn[len(realm):]

	// validate token
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return c.conf.JWTSecret, nil
	}, jwt.WithValidMethods([]string{jwtSigningMethod.Name}), jwt.WithTimeFunc(c.now))
	if err != nil {
		return "", fmt.Errorf("error parsing jwt token: %w", err)
	}
	if !token.Valid {
		return "", errInvalidToken
	}
	user, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error getting subject from token: %w", err)
	}
	if _, ok := c.conf.Users[user]; !ok {
		return "", errInvalidUser
	}
	return user, nil
}

func (c *controller) checkUserAndPassword() (string, error) {
	var payload struct {
		User     string `json:"user"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(c.r.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("error unmarshaling payload: %w", err)
	}
	user := strings.TrimSpace(strings.ToLower(payload.User))
	hash, ok := c.conf.Users[user]
	if !ok {
		return "", errInvalidUser
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(payload.Password)); err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidPassword, err)
	}
	return user, nil
}

func (c *controller) startBot(user string) error {
	serverID, err := c.eventsService.Publish(c.r.Context(), c.conf.TopicID, events.StartBotData(user))
	if err != nil {
		if errors.Is(err, events.ErrServiceNotConfigured) {
			logrus.Error("cannot publish start-bot event, events service is not configured")
			return nil
		}
		return fmt.Errorf("error publishing start-bot event: %w", err)
	}
	logrus.Infof("start-bot event published with serverID=%s", serverID)
	return nil
}

func (c *controller) writeHTTP(format string, args ...interface{}) {
	resp := fmt.Sprintf(format, args...)
	if _, err := c.w.Write([]byte(resp)); err != nil {
		logrus.Errorf("error writing response: %v", err)
	}
}

func (c *controller) replyStatusCode(code int) {
	c.w.WriteHeader(code)
	c.writeHTTP("%s", http.StatusText(code))
}

func (c *controller) replyError(code int, err error) {
	logrus.WithError(err).Errorf("HTTP status code %d", code)
	c.w.WriteHeader(code)
	c.writeHTTP("%s", err.Error())
}
