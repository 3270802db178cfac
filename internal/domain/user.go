package domain

// AccountKind distingue cómo puede autenticarse una cuenta.
type AccountKind string

const (
	// AccountPassword tiene credenciales locales (hash bcrypt).
	AccountPassword AccountKind = "password"
	// AccountFederated fue aprovisionada por un proveedor externo; sin hash local.
	// Un login federado sobre una cuenta con hash no borra el hash: la cuenta
	// queda utilizable por ambas vías.
	AccountFederated AccountKind = "federated"
)

// User es la única entidad persistida: una fila por cuenta.
// Email y Mobile son opcionales pero únicos entre los valores presentes.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email,omitempty"`
	Mobile       string `json:"mobile,omitempty"`
	PasswordHash string `json:"-"`
}

// HasPassword indica si la cuenta admite login con contraseña.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Kind clasifica la cuenta según sus credenciales.
func (u User) Kind() AccountKind {
	if u.HasPassword() {
		return AccountPassword
	}
	return AccountFederated
}
