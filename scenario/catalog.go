package scenario

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/networkteam/hrmcheck/pages"
)

// All returns the scenario catalog in run order.
func All() []Scenario {
	return []Scenario{
		{
			Name:        "login_valid_credentials",
			Description: "Valid credentials show the dashboard",
			Run:         loginValidCredentials,
		},
		{
			Name:        "login_invalid_credentials",
			Description: "Invalid credentials show an error",
			Run:         loginInvalidCredentials,
		},
		{
			Name:        "dashboard_header_exists",
			Description: "The dashboard header is visible and reads Dashboard",
			Run:         dashboardHeaderExists,
		},
		{
			Name:        "directory_navigates",
			Description: "The Directory menu opens the employee directory",
			Run:         menuNavigates("Directory", pages.DirectoryURL, pages.DirectoryPath),
		},
		{
			Name:        "my_info_navigates",
			Description: "The My Info menu opens the personal details",
			Run:         menuNavigates("My Info", pages.PersonalDetailsURL, pages.PersonalDetailsPath),
		},
		{
			Name:        "job_details_navigates",
			Description: "The Job tab of My Info opens the job details",
			Run:         myInfoTabNavigates("Job", pages.JobDetailsURL, pages.JobDetailsPath),
		},
		{
			Name:        "contact_details_navigates",
			Description: "The Contact Details tab of My Info opens the contact details",
			Run:         myInfoTabNavigates("Contact Details", pages.ContactDetailsURL, pages.ContactDetailsPath),
		},
		{
			Name:        "admin_search_user",
			Description: "Searching system users for Admin lists a result",
			Run:         adminSearchUser,
		},
		{
			Name:        "buzz_navigates",
			Description: "The Buzz menu opens the feed",
			Run:         menuNavigates("Buzz", pages.BuzzURL, pages.BuzzPath),
		},
		{
			Name:        "buzz_post_button",
			Description: "The post button of the feed can be clicked",
			Run:         onBuzz((*pages.BuzzPage).ClickPost),
		},
		{
			Name:        "buzz_share_button",
			Description: "The first share button of the feed can be clicked",
			Run:         onBuzz((*pages.BuzzPage).ClickShare),
		},
		{
			Name:        "my_details_personal_details",
			Description: "The My Info link shows Personal Details",
			Run:         myDetailsPersonalDetails,
		},
		{
			Name:        "logout",
			Description: "Logging out returns to the login form",
			Run:         logout,
		},
		{
			Name:        "remember_me_absent",
			Description: "The login form has no remember me option",
			Run:         rememberMeAbsent,
		},
		{
			Name:        "blank_credentials_required",
			Description: "Submitting blank credentials marks the fields as required",
			Run:         blankCredentialsRequired,
		},
	}
}

// Lookup finds a scenario of the catalog by name.
func Lookup(name string) (Scenario, bool) {
	return lo.Find(All(), func(s Scenario) bool {
		return s.Name == name
	})
}

func loginValidCredentials(ctx context.Context, env *Env) error {
	sel := env.Config.Selectors
	if err := pages.NewLoginPage(env.Page, sel).Login(env.Config.Username, env.Config.Password); err != nil {
		return err
	}
	header, err := pages.NewDashboardPage(env.Page, sel).HeaderText()
	if err != nil {
		return err
	}
	return expectContains("dashboard header", header, "Dashboard")
}

func loginInvalidCredentials(ctx context.Context, env *Env) error {
	loginPage := pages.NewLoginPage(env.Page, env.Config.Selectors)
	if err := loginPage.Login("Invalid", "invalid"); err != nil {
		return err
	}
	text, err := loginPage.ErrorText()
	if err != nil {
		return err
	}
	return expectContains("login error", text, "Invalid credentials")
}

func dashboardHeaderExists(ctx context.Context, env *Env) error {
	sel := env.Config.Selectors
	if err := pages.NewLoginPage(env.Page, sel).Login(env.Config.Username, env.Config.Password); err != nil {
		return err
	}
	dashboard := pages.NewDashboardPage(env.Page, sel)
	if err := dashboard.WaitForHeader(env.Config.Timeouts.Login); err != nil {
		return err
	}

	visible, err := dashboard.IsHeaderVisible()
	if err != nil {
		return err
	}
	if err := expectVisible("dashboard header", visible, true); err != nil {
		return err
	}

	header, err := dashboard.HeaderText()
	if err != nil {
		return err
	}
	return expectEqual("dashboard header", header, "Dashboard")
}

func menuNavigates(name, urlPattern, pathFragment string) func(context.Context, *Env) error {
	return func(ctx context.Context, env *Env) error {
		if err := env.LoginAsAdmin(); err != nil {
			return err
		}
		if err := pages.NewMainMenu(env.Page, env.Config.Selectors).Open(name); err != nil {
			return err
		}
		if err := env.WaitForURL(urlPattern); err != nil {
			return err
		}
		return env.ExpectURLContains(pathFragment)
	}
}

func myInfoTabNavigates(tab, urlPattern, pathFragment string) func(context.Context, *Env) error {
	return func(ctx context.Context, env *Env) error {
		if err := menuNavigates("My Info", pages.PersonalDetailsURL, pages.PersonalDetailsPath)(ctx, env); err != nil {
			return err
		}
		if err := pages.NewMainMenu(env.Page, env.Config.Selectors).Open(tab); err != nil {
			return err
		}
		if err := env.WaitForURL(urlPattern); err != nil {
			return err
		}
		return env.ExpectURLContains(pathFragment)
	}
}

func adminSearchUser(ctx context.Context, env *Env) error {
	sel := env.Config.Selectors
	if err := pages.NewLoginPage(env.Page, sel).Login(env.Config.Username, env.Config.Password); err != nil {
		return err
	}
	adminPage := pages.NewAdminPage(env.Page, sel)
	if err := adminPage.GoToAdmin(); err != nil {
		return err
	}
	if err := adminPage.SearchUser(env.Config.Username); err != nil {
		return err
	}
	if err := env.Page.WaitForSelector(sel.TableCell, env.Config.Timeouts.Action); err != nil {
		return err
	}

	visible, err := adminPage.FirstResultCell().IsVisible()
	if err != nil {
		return err
	}
	return expectVisible("first result cell", visible, true)
}

func onBuzz(click func(*pages.BuzzPage) error) func(context.Context, *Env) error {
	return func(ctx context.Context, env *Env) error {
		if err := menuNavigates("Buzz", pages.BuzzURL, pages.BuzzPath)(ctx, env); err != nil {
			return err
		}
		return click(pages.NewBuzzPage(env.Page, env.Config.Selectors))
	}
}

func myDetailsPersonalDetails(ctx context.Context, env *Env) error {
	if err := pages.NewLoginPage(env.Page, env.Config.Selectors).Login(env.Config.Username, env.Config.Password); err != nil {
		return err
	}
	if err := pages.NewMainMenu(env.Page, env.Config.Selectors).OpenMyDetails(); err != nil {
		return err
	}
	if err := env.WaitForURL(pages.PersonalDetailsURL); err != nil {
		return err
	}
	content, err := env.Page.Content()
	if err != nil {
		return err
	}
	return expectContains("page content", content, "Personal Details")
}

func logout(ctx context.Context, env *Env) error {
	if err := pages.NewLoginPage(env.Page, env.Config.Selectors).Login(env.Config.Username, env.Config.Password); err != nil {
		return err
	}
	if err := pages.NewUserMenu(env.Page, env.Config.Selectors).Logout(); err != nil {
		return err
	}
	if err := env.WaitForURL("**" + pages.LoginPath); err != nil {
		return err
	}
	if url := env.Page.URL(); !strings.HasSuffix(url, pages.LoginPath) {
		return Failf("expected URL to end with %s, got %s", pages.LoginPath, url)
	}
	return nil
}

func rememberMeAbsent(ctx context.Context, env *Env) error {
	visible, err := pages.NewLoginPage(env.Page, env.Config.Selectors).IsRememberMeVisible()
	if err != nil {
		return err
	}
	return expectVisible("remember me checkbox", visible, false)
}

func blankCredentialsRequired(ctx context.Context, env *Env) error {
	loginPage := pages.NewLoginPage(env.Page, env.Config.Selectors)
	if err := loginPage.Login("", ""); err != nil {
		return err
	}
	text, err := loginPage.FormText()
	if err != nil {
		return err
	}
	return expectContains("login form", text, "Required")
}
