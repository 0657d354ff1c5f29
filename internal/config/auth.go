package config

import "time"

type Auth struct {
	JWTSecret    string        `env:"AUTH_JWT_SECRET,required"`
	TokenTTL     time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"8760h"`
	SecureCookie bool          `env:"AUTH_SECURE_COOKIE" envDefault:"false"`
	BcryptCost   int           `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}
