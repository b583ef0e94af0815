package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	Port string // Port for the HTTP/websocket server

	MinMazeSize    int // Smallest maze dimension a room may get (odd)
	MaxMazeSize    int // Largest maze dimension a room may get (odd)
	SizeMultiplier int // Extra maze size per player slot
	Difficulty     int // Obstacle density level, 0 disables obstacles

	DefaultLives      int // Lives a player starts with
	MaxPlayers        int // Room capacity
	MinPlayersToStart int // Population required before the ready gate can open

	TickRate int // Simulation/broadcast ticks per second
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		Port: getEnv("PORT", "8080"),

		MinMazeSize:    getEnvAsInt("MIN_MAZE_SIZE", 15),
		MaxMazeSize:    getEnvAsInt("MAX_MAZE_SIZE", 31),
		SizeMultiplier: getEnvAsInt("SIZE_MULTIPLIER", 2),
		Difficulty:     getEnvAsInt("DIFFICULTY", 1),

		DefaultLives:      getEnvAsInt("DEFAULT_LIVES", 3),
		MaxPlayers:        getEnvAsInt("MAX_PLAYERS", 4),
		MinPlayersToStart: getEnvAsInt("MIN_PLAYERS_TO_START", 2),

		TickRate: getEnvAsInt("TICK_RATE", 60),
	}
}

// getEnv retrieves the value of an environment variable or falls back to the
// given default when it is not set.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves the value of an environment variable as an integer or
// falls back to the given default when it is not set or cannot be parsed.
func getEnvAsInt(key string, fallback int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("[APP] [WARN] Environment variable %s must be an integer, using default %d: %v", key, fallback, err)
		return fallback
	}
	return value
}
