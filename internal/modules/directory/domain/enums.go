//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Visibility represents whether a channel is public or private
// ENUM(public,private)
type Visibility string

// AppEnv represents the application environment
// ENUM(local,production,development,testing)
type AppEnv string
