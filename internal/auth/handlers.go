package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/broconnector/gmw-map/internal/db"
	"github.com/broconnector/gmw-map/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

const sessionTTL = 12 * time.Hour

// sessionCookie is Secure unless the service runs on a plain local port.
func sessionCookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     "session_id",
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if os.Getenv("PORT") != "" && os.Getenv("MAP_INSECURE_COOKIES") == "" {
		c.Secure = true
	}
	return c
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds User
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid Data", http.StatusBadRequest)
		return
	}

	var user User
	if err := db.DB.First(&user, "username = ?", creds.Username).Error; err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(creds.Password)); err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	session := Session{
		SessionID: utils.GenerateUUID(),
		UserID:    user.UserID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	// One session per user; logging in again replaces it.
	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"session_id", "expires_at"}),
	}).Create(&session).Error
	if err != nil {
		log.Printf("[auth] create session for %s: %v", user.UserID, err)
		http.Error(w, "Failed to create session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, sessionCookie(session.SessionID, int(sessionTTL.Seconds())))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"user_id":  user.UserID,
		"username": user.Username,
	})
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("session_id")
	if err != nil {
		http.Error(w, "Couldn't find cookie", http.StatusUnauthorized)
		return
	}

	if err := db.DB.Where("session_id = ?", cookie.Value).Delete(&Session{}).Error; err != nil {
		http.Error(w, "Failed to delete session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, sessionCookie("", -1))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Logout successful\n"))
}

type MeResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var user User
	if err := db.DB.First(&user, "user_id = ?", userID).Error; err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MeResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Role:     user.Role,
	})
}
