package services

import (
	"time"

	"pizzaShop/models"
	"pizzaShop/repository"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const roleField = "role"
const roleManager = "manager"

// AuthService guards the manager dashboard. There is a single manager
// account whose bcrypt hash comes from configuration. Sessions slide:
// every authorized request pushes the expiry out by sessionTTL.
type AuthService struct {
	sr                  repository.SessionRepository
	managerPasswordHash string
	sessionTTL          time.Duration
}

func NewAuthService(sessionRepo repository.SessionRepository, managerPasswordHash string, sessionTTL time.Duration) AuthService {
	return AuthService{
		sr:                  sessionRepo,
		managerPasswordHash: managerPasswordHash,
		sessionTTL:          sessionTTL,
	}
}

func (as *AuthService) Login(password string) (sessionId string, err error) {
	if as.managerPasswordHash == "" {
		log.Error("Login: manager password hash is not configured")
		err = models.ErrUnautorized
		return
	}
	if e := bcrypt.CompareHashAndPassword([]byte(as.managerPasswordHash), []byte(password)); e != nil {
		log.Warn("Login: wrong manager password")
		err = models.ErrUnautorized
		return
	}

	sessionId, err = as.sr.CreateSession()
	if err != nil {
		return
	}
	err = as.sr.SetValue(sessionId, roleField, []byte(roleManager))
	return
}

func (as *AuthService) CheckAccess(sessionId string) (access bool, err error) {
	alive, e := as.sr.CheckSession(sessionId)
	if e != nil {
		err = e
		return
	}
	if !alive {
		return
	}

	raw, found, e := as.sr.GetValue(sessionId, roleField)
	if e != nil {
		err = e
		return
	}
	if !found || string(raw) != roleManager {
		return
	}

	if e := as.sr.RefreshSession(sessionId, as.sessionTTL); e != nil {
		log.WithError(e).Error("CheckAccess: refresh")
	}
	access = true
	return
}

func (as *AuthService) Logout(sessionId string) (err error) {
	err = as.sr.DeleteSession(sessionId)
	return
}
