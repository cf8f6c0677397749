package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"passport/internal/config"
	"passport/internal/utils"
	"passport/internal/utils/crypto"
	"passport/internal/utils/logger"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	var log = logger.New("helper")
	log.Info("🔑 Starting credential helper CLI")

	err := godotenv.Load()
	if err != nil {
		log.Warn("⚠️ No environment file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("❌ Failed to load configuration", err)
		return
	}
	err = crypto.InitializeKey(cfg.JWT.Secret)
	if err != nil {
		log.Error("❌ Failed to initialize signing key", err)
		return
	}

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("Enter 'h' to hash a password, 's' to generate a secret, or 'q' to quit: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)

		if choice == "q" {
			log.Info("👋 Exiting helper CLI")
			break
		}

		switch choice {
		case "h":
			fmt.Print("Enter the password to hash: ")
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(input)

			hashed, err := bcrypt.GenerateFromPassword([]byte(input), bcrypt.DefaultCost)
			if err != nil {
				log.Error("❌ Hashing failed", err)
			} else {
				log.Success("✅ Password hash: %s", string(hashed))
			}
		case "s":
			secret, err := utils.GenerateRandomString(48)
			if err != nil {
				log.Error("❌ Secret generation failed", err)
			} else {
				log.Success("✅ Signing secret: %s", secret)
			}
		default:
			log.Warn("⚠️ Invalid choice. Please enter 'h', 's', or 'q'.")
		}
	}
}
