package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"setoran/internal/auth"
	"setoran/internal/core"
)

const sessionCookie = "setoran_session"

// principal resolves the request to an operator, via bearer token or
// session cookie.
func (s *Server) principal(r *http.Request) (auth.Principal, bool) {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if p, err := s.registry.ResolveToken(strings.TrimPrefix(h, "Bearer ")); err == nil {
			return p, true
		}
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		if p, err := s.registry.Resolve(c.Value); err == nil {
			return p, true
		}
	}
	return auth.Principal{}, false
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	p, ok := s.principal(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	data := struct {
		Operator string
		Tanggal  string
		Harga    string
	}{
		Operator: p.Name,
		Tanggal:  core.FormatTanggal(now),
		Harga:    core.FormatNumber(core.HargaPerLiter),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if s.templates == nil {
			http.Error(w, "templates not loaded", http.StatusInternalServerError)
			return
		}
		if err := s.templates.ExecuteTemplate(w, "login.html", nil); err != nil {
			slog.ErrorContext(r.Context(), "Login template execution failed", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		email := sanitizeInput(r.Form.Get("email"))
		token := strings.TrimSpace(r.Form.Get("token"))

		p, sessionID, err := s.registry.Login(email, token)
		if err != nil {
			slog.WarnContext(r.Context(), "Login failed", "email", email)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`<div class="error">Email atau token salah</div>`))
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		slog.InfoContext(r.Context(), "Operator logged in",
			"user_id", p.ID, "email", p.Email)
		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.registry.Revoke(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleSaveReport persists the submitted form and answers with an
// HTML fragment carrying the derived totals and the share text.
func (s *Server) handleSaveReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	p, ok := s.principal(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`<div class="error">Silakan login terlebih dahulu</div>`))
		return
	}

	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Format permintaan tidak valid</div>`))
		return
	}

	in := core.ReportInput{
		Tanggal: core.FormatTanggal(time.Now()),
		Shift:   core.Shift(strings.TrimSpace(r.Form.Get("shift"))),
		QRIS:    core.ParseRupiah(r.Form.Get("qris")),
		PUItems: parsePUItems(r.Form["pu_keterangan"], r.Form["pu_nominal"]),
	}
	in.NomorAwal.SetText(strings.TrimSpace(r.Form.Get("nomor_awal")))
	in.NomorAkhir.SetText(strings.TrimSpace(r.Form.Get("nomor_akhir")))

	result, err := s.reports.Save(r.Context(), p, in)
	if err != nil {
		if errors.Is(err, core.ErrUnknownShift) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Shift tidak dikenal</div>`))
			return
		}
		slog.ErrorContext(r.Context(), "Report save error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Gagal menyimpan laporan</div>`))
		return
	}

	s.invalidateDashboards()

	rep := result.Report
	var b strings.Builder
	b.WriteString(`<div class="success">Laporan tersimpan (` + template.HTMLEscapeString(rep.ID) + `)`)
	if rep.Version > 1 {
		b.WriteString(` &mdash; menimpa laporan sebelumnya`)
	}
	b.WriteString(`</div>`)
	b.WriteString(`<dl class="totals">`)
	b.WriteString(`<dt>Total liter</dt><dd>` + core.FormatLiter(rep.TotalLiter) + `</dd>`)
	b.WriteString(`<dt>Total setoran</dt><dd>Rp ` + core.FormatNumber(rep.TotalSetoran) + `</dd>`)
	b.WriteString(`<dt>Cash</dt><dd>Rp ` + core.FormatNumber(rep.Cash) + `</dd>`)
	b.WriteString(`<dt>Total PU</dt><dd>Rp ` + core.FormatNumber(rep.PU) + `</dd>`)
	b.WriteString(`<dt>Total keseluruhan</dt><dd>Rp ` + core.FormatNumber(rep.TotalKeseluruhan) + `</dd>`)
	b.WriteString(`</dl>`)
	b.WriteString(`<pre class="share-text">` + template.HTMLEscapeString(result.ShareText) + `</pre>`)
	if result.Shared {
		b.WriteString(`<div class="hint">Teks setoran sudah dibagikan</div>`)
	} else {
		b.WriteString(`<div class="hint">Salin teks di atas untuk dibagikan</div>`)
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.String()))
}

// parsePUItems pairs the keterangan and nominal columns of the dynamic
// PU rows. Rows with neither a label nor an amount are dropped.
func parsePUItems(kets, noms []string) []core.PUItem {
	n := len(kets)
	if len(noms) > n {
		n = len(noms)
	}

	var items []core.PUItem
	for i := 0; i < n; i++ {
		var ket, nom string
		if i < len(kets) {
			ket = sanitizeInput(kets[i])
		}
		if i < len(noms) {
			nom = strings.TrimSpace(noms[i])
		}
		if ket == "" && nom == "" {
			continue
		}
		items = append(items, core.PUItem{
			Keterangan: ket,
			Nominal:    core.ParseRupiah(nom),
		})
	}
	return items
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
