package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/apperror"
	"velora_back_end/internal/database"
)

const (
	LoginMaxAttempts          = 5
	SignupMaxAttempts         = 3
	ForgotPasswordMaxAttempts = 3

	LoginCooldown          = 15 * time.Minute
	SignupCooldown         = 30 * time.Minute
	ForgotPasswordCooldown = 10 * time.Minute
)

// LoginRateLimit limite les tentatives de connexion par email : après
// LoginMaxAttempts échecs, cooldown de 15 minutes. Un login réussi
// remet les compteurs à zéro.
func LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := peekEmail(c)
		if email == "" {
			c.Next()
			return
		}

		ctx := context.Background()
		key := "login_attempts:" + email
		cooldownKey := "login_cooldown:" + email

		if database.Redis.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := database.Redis.TTL(ctx, cooldownKey).Val()
			abort(c, apperror.TooManyRequests(fmt.Sprintf("Trop de tentatives échouées. Réessayez dans %d minutes", int(ttl.Minutes()))))
			return
		}

		attempts, _ := database.Redis.Get(ctx, key).Int()
		if attempts >= LoginMaxAttempts {
			database.Redis.Set(ctx, cooldownKey, "1", LoginCooldown)
			database.Redis.Del(ctx, key)
			abort(c, apperror.TooManyRequests(fmt.Sprintf("Trop de tentatives échouées. Compte bloqué pendant %d minutes", int(LoginCooldown.Minutes()))))
			return
		}

		c.Next()

		switch responseStatus(c) {
		case http.StatusUnauthorized:
			database.Redis.Incr(ctx, key)
			database.Redis.Expire(ctx, key, LoginCooldown)
		case http.StatusOK:
			database.Redis.Del(ctx, key)
			database.Redis.Del(ctx, cooldownKey)
		}
	}
}

// SignupRateLimit limite les inscriptions par IP.
func SignupRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		ip := c.ClientIP()
		key := "signup_attempts:" + ip
		cooldownKey := "signup_cooldown:" + ip

		if database.Redis.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := database.Redis.TTL(ctx, cooldownKey).Val()
			abort(c, apperror.TooManyRequests(fmt.Sprintf("Trop d'inscriptions. Réessayez dans %d minutes", int(ttl.Minutes()))))
			return
		}

		attempts, _ := database.Redis.Get(ctx, key).Int()
		if attempts >= SignupMaxAttempts {
			database.Redis.Set(ctx, cooldownKey, "1", SignupCooldown)
			database.Redis.Del(ctx, key)
			abort(c, apperror.TooManyRequests(fmt.Sprintf("Trop d'inscriptions. Réessayez dans %d minutes", int(SignupCooldown.Minutes()))))
			return
		}

		c.Next()

		if responseStatus(c) == http.StatusCreated {
			database.Redis.Incr(ctx, key)
			database.Redis.Expire(ctx, key, SignupCooldown)
		}
	}
}

// ForgotPasswordRateLimit limite les demandes de réinitialisation par email.
func ForgotPasswordRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := peekEmail(c)
		if email == "" {
			c.Next()
			return
		}

		ctx := context.Background()
		key := "forgot_password_attempts:" + email
		cooldownKey := "forgot_password_cooldown:" + email

		if database.Redis.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := database.Redis.TTL(ctx, cooldownKey).Val()
			abort(c, apperror.TooManyRequests(fmt.Sprintf("Trop de demandes. Réessayez dans %d minutes", int(ttl.Minutes()))))
			return
		}

		attempts, _ := database.Redis.Get(ctx, key).Int()
		if attempts >= ForgotPasswordMaxAttempts {
			database.Redis.Set(ctx, cooldownKey, "1", ForgotPasswordCooldown)
			database.Redis.Del(ctx, key)
			abort(c, apperror.TooManyRequests(fmt.Sprintf("Trop de demandes. Réessayez dans %d minutes", int(ForgotPasswordCooldown.Minutes()))))
			return
		}

		c.Next()

		if responseStatus(c) == http.StatusOK {
			database.Redis.Incr(ctx, key)
			database.Redis.Expire(ctx, key, ForgotPasswordCooldown)
		}
	}
}

// responseStatus retourne le statut effectif de la requête. Les handlers
// signalent leurs erreurs via c.Error(...) et c'est ErrorHandler, plus
// extérieur, qui écrira la réponse : au moment où un limiteur regarde,
// c.Writer.Status() dit encore 200. On lit donc d'abord l'erreur en attente.
func responseStatus(c *gin.Context) int {
	if len(c.Errors) > 0 {
		var appErr *apperror.Error
		if errors.As(c.Errors.Last().Err, &appErr) {
			return appErr.Status
		}
		return http.StatusInternalServerError
	}
	return c.Writer.Status()
}

// peekEmail lit l'email du body JSON sans le consommer pour les handlers
// suivants.
func peekEmail(c *gin.Context) string {
	bodyBytes, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	var input struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(bodyBytes, &input); err != nil {
		return ""
	}
	return input.Email
}
