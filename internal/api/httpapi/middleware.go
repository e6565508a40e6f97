package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Jeevanbnj/F-Glu/internal/infrastructure/auth"
)

const (
	DoctorIDKey    = "doctor_id"
	DoctorEmailKey = "doctor_email"
)

// CORS пропускает запросы фронтенда с разрешённых адресов.
func CORS(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(ctx *gin.Context) {
		origin := ctx.GetHeader("Origin")
		if origin != "" && (allowed["*"] || allowed[origin]) {
			h := ctx.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			h.Add("Vary", "Origin")
		}

		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}

// RequireDoctor проверяет Bearer токен. При required=false запрос без токена
// проходит, но валидный токен всё равно кладётся в контекст.
func RequireDoctor(tokens TokenValidator, required bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
			claims, err := tokens.Validate(token)
			if err == nil {
				ctx.Set(DoctorIDKey, claims.DoctorID)
				ctx.Set(DoctorEmailKey, claims.Email)
				ctx.Next()
				return
			}
			if required {
				abortUnauthorized(ctx, err.Error())
				return
			}
		}

		if required {
			abortUnauthorized(ctx, auth.ErrInvalidToken.Error())
			return
		}
		ctx.Next()
	}
}

func abortUnauthorized(ctx *gin.Context, description string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":      "error",
		"description": description,
	})
}

// CurrentDoctorID идентификатор врача из токена.
func CurrentDoctorID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(DoctorIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// CurrentDoctorEmail email врача из токена.
func CurrentDoctorEmail(ctx *gin.Context) string {
	return ctx.GetString(DoctorEmailKey)
}
