package session

import (
	"net/http"

	"github.com/gorilla/sessions"

	"sparkyfitness-server/internal/config"
)

// Ключи значений внутри cookie-сессии.
const (
	keyUserID = "user_id"
	keyEmail  = "email"
	keyRole   = "role"
)

// Store — обёртка над cookie-хранилищем gorilla/sessions для серверной
// сессии веб-клиента (cookie sparky.sid). Используется как альтернатива
// bearer-токену: браузерный клиент ходит с cookie, мобильный — с JWT.
type Store struct {
	store      *sessions.CookieStore
	cookieName string
}

// NewStore создаёт хранилище сессий на основе конфигурации.
func NewStore(cfg *config.SessionConfig) *Store {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Store{
		store:      store,
		cookieName: cfg.CookieName,
	}
}

// Identity описывает аутентифицированного пользователя внутри сессии.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// Save записывает идентичность пользователя в сессию и выставляет cookie.
func (s *Store) Save(w http.ResponseWriter, r *http.Request, identity Identity) error {
	sess, err := s.store.Get(r, s.cookieName)
	if err != nil {
		// Повреждённую cookie перезаписываем новой сессией
		sess, _ = s.store.New(r, s.cookieName)
	}

	sess.Values[keyUserID] = identity.UserID
	sess.Values[keyEmail] = identity.Email
	sess.Values[keyRole] = identity.Role

	return sess.Save(r, w)
}

// Identity извлекает идентичность из cookie-сессии запроса.
// Возвращает (identity, true) при валидной сессии.
func (s *Store) Identity(r *http.Request) (Identity, bool) {
	sess, err := s.store.Get(r, s.cookieName)
	if err != nil || sess.IsNew {
		return Identity{}, false
	}

	userID, ok := sess.Values[keyUserID].(string)
	if !ok || userID == "" {
		return Identity{}, false
	}

	email, _ := sess.Values[keyEmail].(string)
	role, _ := sess.Values[keyRole].(string)
	return Identity{UserID: userID, Email: email, Role: role}, true
}

// Clear уничтожает сессию (logout).
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, err := s.store.Get(r, s.cookieName)
	if err != nil {
		return nil
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
