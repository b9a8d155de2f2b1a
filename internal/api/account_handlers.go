package api

import (
	"log"
	"net/http"

	"github.com/fuomag9/login-gateway/internal/session"
)

// HandlePasswordHome renders the home page. The password variant never
// redirects from home; login is an explicit page.
func HandlePasswordHome(renderer *Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.render(w, "home.html", viewData{Title: "Home"})
	}
}

// HandleLoginForm renders the login form
func HandleLoginForm(renderer *Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.render(w, "login.html", viewData{Title: "Login"})
	}
}

// HandleRegisterForm renders the registration form
func HandleRegisterForm(renderer *Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.render(w, "register.html", viewData{Title: "Register"})
	}
}

// HandleLogin verifies the submitted credentials and issues the session
// cookie. Any failure redirects back to the login form without a cookie.
func HandleLogin(auth Authenticator, signer *session.Signer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.PostFormValue("username")
		password := r.PostFormValue("password")

		userID, ok, err := auth.Login(r.Context(), username, password)
		if err != nil {
			log.Println("Login: Credential check failed:", err)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		if !ok {
			log.Println("Login: Invalid credentials")
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		claim, err := signer.Issue(userID)
		if err != nil {
			log.Println("Login: Failed to sign session claim:", err)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		setSessionCookie(w, passwordCookieName, claim, signer.TTL())
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

// HandleRegister creates a new credential. Duplicate usernames redirect back
// to the registration form.
func HandleRegister(auth Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.PostFormValue("username")
		password := r.PostFormValue("password")

		created, err := auth.Register(r.Context(), username, password)
		if err != nil {
			log.Println("Register: Failed to create credential:", err)
			http.Redirect(w, r, "/register", http.StatusFound)
			return
		}
		if !created {
			log.Println("Register: Username already taken")
			http.Redirect(w, r, "/register", http.StatusFound)
			return
		}

		http.Redirect(w, r, "/login", http.StatusFound)
	}
}
