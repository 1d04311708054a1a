package notify

// defaultAccounts maps known source-application identifiers to the account
// labels shown on the dashboard.
var defaultAccounts = map[string]string{
	"com.nu.production": "Pessoal",
	"com.c6bank.app":    "Conjunto",
}

// UserResolver maps an opaque source-application identifier to a
// human-facing account label. Unknown identifiers pass through unchanged.
type UserResolver struct {
	accounts map[string]string
}

// NewUserResolver builds a resolver from the default table merged with any
// configured overrides.
func NewUserResolver(overrides map[string]string) *UserResolver {
	accounts := make(map[string]string, len(defaultAccounts)+len(overrides))
	for app, label := range defaultAccounts {
		accounts[app] = label
	}
	for app, label := range overrides {
		if label != "" {
			accounts[app] = label
		}
	}
	return &UserResolver{accounts: accounts}
}

// Resolve returns the display label for a source app. Total function: there
// is no error path, an unmapped identifier is its own label.
func (r *UserResolver) Resolve(sourceApp string) string {
	if label, ok := r.accounts[sourceApp]; ok {
		return label
	}
	return sourceApp
}
