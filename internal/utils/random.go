package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/la-clef-asso/laclef-news/backend/internal/domain"
)

var commonFirstNames = []string{
	"Camille", "Léa", "Hugo", "Chloé", "Lucas", "Manon", "Louis", "Emma",
	"Jules", "Jade", "Arthur", "Zoé", "Gabriel", "Inès", "Raphaël", "Anaïs",
	"Théo", "Margaux", "Nathan", "Clémence",
}

var commonLastNames = []string{
	"Martin", "Bernard", "Thomas", "Petit", "Robert", "Richard", "Durand",
	"Dubois", "Moreau", "Laurent", "Simon", "Michel", "Lefèvre", "Leroy",
	"Roux", "David", "Bertrand", "Morel", "Fournier", "Girard",
}

func GenerateRandomFrenchName() string {
	return commonFirstNames[rand.Intn(len(commonFirstNames))] + " " + commonLastNames[rand.Intn(len(commonLastNames))]
}

var asciiFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// HandleFromName dérive un identifiant ASCII d'un nom d'affichage : accents
// supprimés, minuscules, espaces remplacés par des points.
func HandleFromName(name string) string {
	folded, _, err := transform.String(asciiFolder, name)
	if err != nil {
		folded = name
	}

	handle := strings.ToLower(strings.TrimSpace(folded))
	fields := strings.Fields(handle)
	return strings.Join(fields, ".")
}

var roles = []domain.Role{
	domain.RoleUser,
	domain.RoleAdmin,
	domain.RoleSuperAdmin,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	displayName := GenerateRandomFrenchName()
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        HandleFromName(displayName) + "@" + emailDomainName,
		PasswordHash: string(passwordHash),
		DisplayName:  displayName,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}
