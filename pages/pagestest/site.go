package pagestest

import (
	"strings"

	"github.com/networkteam/hrmcheck/config"
)

const employeePath = "/empNumber/7"

// NewDemoSite returns a page scripted like the OrangeHRM demo: a login form that
// accepts the given credentials, a dashboard and the navigation targets used by
// the scenarios. Navigating to the start URL shows the login form.
func NewDemoSite(cfg config.Config) *Page {
	p := NewPage()
	site := &demoSite{cfg: cfg, base: strings.TrimSuffix(cfg.BaseURL, "/")}

	p.OnGoto(func(p *Page, url string) {
		site.showLogin(p)
	})
	p.OnClick(cfg.Selectors.Submit, site.submit)
	if cfg.Selectors.AdminSubmit != cfg.Selectors.Submit {
		p.OnClick(cfg.Selectors.AdminSubmit, site.submit)
	}
	return p
}

type demoSite struct {
	cfg  config.Config
	base string
}

func (s *demoSite) showLogin(p *Page) {
	sel := s.cfg.Selectors
	p.ClearElements()
	p.SetURL(s.base + "/web/index.php/auth/login")
	p.SetElement(sel.Username, "", true)
	p.SetElement(sel.Password, "", true)
	p.SetElement(sel.Submit, "Login", true)
	p.SetElement(sel.AppRoot, "Username Password Login Forgot your password?", true)
	p.SetContent("<html><body><div id=\"app\">Login</div></body></html>")
}

func (s *demoSite) submit(p *Page) {
	sel := s.cfg.Selectors
	switch {
	case strings.HasSuffix(p.URL(), "/auth/login"):
		username, password := p.Value(sel.Username), p.Value(sel.Password)
		switch {
		case username == "" || password == "":
			p.SetElement(sel.AppRoot, "Username Required Password Required Login", true)
		case username == s.cfg.Username && password == s.cfg.Password:
			s.showDashboard(p)
		default:
			p.SetElement(sel.LoginAlert, "Invalid credentials", true)
		}
	case strings.Contains(p.URL(), "/admin/"):
		p.SetElement(sel.TableCell, p.Value(sel.AdminSearch), true)
	}
}

// shell renders the authenticated layout with the given breadcrumb header.
func (s *demoSite) shell(p *Page, path, header string) {
	sel := s.cfg.Selectors
	p.ClearElements()
	p.SetURL(s.base + path)
	p.SetElement(sel.Header, header, true)
	p.SetElement(sel.UserDropdown, "Paul Collings", true)
	p.SetElement(sel.LogoutLink, "Logout", false)
	p.SetElement(sel.AdminTab, "Admin", true)
	p.SetElement(sel.MyDetailsLink, "My Info", true)
	p.SetContent("<html><body><h6>" + header + "</h6></body></html>")

	menu := map[string]func(p *Page){
		"Directory": func(p *Page) { s.shell(p, "/web/index.php/directory/viewDirectory", "Directory") },
		"My Info":   s.showPersonalDetails,
		"Buzz":      s.showBuzz,
	}
	for name, fn := range menu {
		p.SetElement(sel.Menu(name), name, true)
		p.OnClick(sel.Menu(name), fn)
	}
	p.OnClick(sel.AdminTab, func(p *Page) {
		s.shell(p, "/web/index.php/admin/viewSystemUsers", "Admin")
		p.SetElement(sel.AdminSearch, "", true)
		p.SetElement(sel.AdminSubmit, "Search", true)
	})
	p.OnClick(sel.MyDetailsLink, s.showPersonalDetails)
	p.OnClick(sel.UserDropdown, func(p *Page) {
		p.SetElement(sel.LogoutLink, "Logout", true)
	})
	p.OnClick(sel.LogoutLink, s.showLogin)
}

func (s *demoSite) showDashboard(p *Page) {
	s.shell(p, "/web/index.php/dashboard/index", "Dashboard")
}

func (s *demoSite) showPersonalDetails(p *Page) {
	sel := s.cfg.Selectors
	s.shell(p, "/web/index.php/pim/viewPersonalDetails"+employeePath, "PIM")
	p.SetContent("<html><body><h6>Personal Details</h6></body></html>")
	p.SetElement(sel.Menu("Job"), "Job", true)
	p.OnClick(sel.Menu("Job"), func(p *Page) {
		s.shell(p, "/web/index.php/pim/viewJobDetails"+employeePath, "PIM")
	})
	p.SetElement(sel.Menu("Contact Details"), "Contact Details", true)
	p.OnClick(sel.Menu("Contact Details"), func(p *Page) {
		s.shell(p, "/web/index.php/pim/contactDetails"+employeePath, "PIM")
	})
}

func (s *demoSite) showBuzz(p *Page) {
	sel := s.cfg.Selectors
	s.shell(p, "/web/index.php/buzz/viewBuzz", "Buzz")
	p.SetElement(sel.BuzzPost, "Post", true)
	p.SetElement(sel.BuzzShare, "", true)
}
