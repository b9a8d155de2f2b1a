package api

import (
	"log"
	"net/http"

	"github.com/fuomag9/login-gateway/internal/session"
)

// HandleOAuthHome renders the home page, or redirects to the provider's
// authorization page when there is no valid session.
func HandleOAuthHome(mgr TokenManager, exchanger CodeExchanger, signer *session.Signer, renderer *Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(oauthCookieName)
		if err != nil {
			http.Redirect(w, r, exchanger.AuthorizationURL(), http.StatusFound)
			return
		}

		userID, err := signer.Verify(cookie.Value)
		if err != nil {
			log.Println("Home: Invalid session cookie:", err)
			http.Redirect(w, r, exchanger.AuthorizationURL(), http.StatusFound)
			return
		}

		// Touch the token record so an expired grant is refreshed. A lookup
		// miss is logged and the page is served anyway (stay-up policy).
		if _, err := mgr.TokensForUser(r.Context(), userID); err != nil {
			log.Printf("Home: No token record for user %d: %v", userID, err)
		}

		renderer.render(w, "home.html", viewData{Title: "Home"})
	}
}

// HandleOAuthCallback exchanges the authorization code, persists the token
// pair, and issues the session cookie.
func HandleOAuthCallback(mgr TokenManager, exchanger CodeExchanger, signer *session.Signer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "Code parameter is missing", http.StatusBadRequest)
			return
		}

		grant, err := exchanger.ExchangeAuthorizationCode(r.Context(), code)
		if err != nil {
			log.Println("Callback: Token exchange failed:", err)
			http.Error(w, "Unable to get tokens from provider", http.StatusInternalServerError)
			return
		}

		if err := mgr.StoreNewTokens(r.Context(), grant.AccessToken, grant.RefreshToken, grant.ExpiresIn); err != nil {
			log.Println("Callback: Failed to store tokens:", err)
			http.Error(w, "Unable to store tokens", http.StatusInternalServerError)
			return
		}

		// The insert is keyed by token values; resolve the assigned identity.
		userID, err := mgr.UserIDByAccessToken(r.Context(), grant.AccessToken)
		if err != nil {
			log.Println("Callback: Failed to resolve user id:", err)
			http.Error(w, "Unable to look up user", http.StatusInternalServerError)
			return
		}

		claim, err := signer.Issue(userID)
		if err != nil {
			log.Println("Callback: Failed to sign session claim:", err)
			http.Error(w, "Unable to create session", http.StatusInternalServerError)
			return
		}

		setSessionCookie(w, oauthCookieName, claim, signer.TTL())
		http.Redirect(w, r, "/", http.StatusFound)
	}
}
