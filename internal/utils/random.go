package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonFirstNames = []string{
	"Anna", "Maria", "Eva", "Julia", "Sophie", "Lena", "Katharina", "Sarah",
	"Markus", "Thomas", "Stefan", "Michael", "Andreas", "Christian", "Lukas", "David",
}

var commonLastNames = []string{
	"Gruber", "Huber", "Bauer", "Wagner", "Müller", "Pichler", "Steiner", "Moser",
	"Mayer", "Hofer", "Leitner", "Berger", "Fuchs", "Eder", "Fischer", "Schmid",
}

func GenerateRandomFullName() string {
	return commonFirstNames[rand.Intn(len(commonFirstNames))] + " " + commonLastNames[rand.Intn(len(commonLastNames))]
}

var digits = "0123456789"

// GenerateEmailFromFullName 根据姓名生成唯一的邮箱前缀，
// 后面拼上随机数字避免重名员工的邮箱冲突。
func GenerateEmailFromFullName(fullName string, emailDomainName string) string {
	local := strings.ToLower(strings.ReplaceAll(fullName, " ", "."))
	local = strings.Map(func(r rune) rune {
		switch r {
		case 'ä':
			return 'a'
		case 'ö':
			return 'o'
		case 'ü':
			return 'u'
		case 'ß':
			return 's'
		}
		return r
	}, local)

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		local += string(digits[rand.Intn(len(digits))])
	}

	return local + "@" + emailDomainName
}

func GenerateRandomEmployee(password string, emailDomainName string, regionID *int64) (*domain.Profile, error) {
	fullName := GenerateRandomFullName()
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		Email:        GenerateEmailFromFullName(fullName, emailDomainName),
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Role:         domain.RoleEmployee,
		RegionID:     regionID,
		IsActive:     true,
	}

	return profile, nil
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

// GenerateRandomShiftWindow 生成一个随机的班次时间段，
// 开始时间落在 6:00 ~ 17:00 之间，时长 1 ~ 4 小时。
func GenerateRandomShiftWindow() (string, string) {
	startHour := rand.Intn(12) + 6
	startMinute := rand.Intn(2) * 30
	durationHours := rand.Intn(4) + 1

	from := fmt.Sprintf("%02d:%02d:00", startHour, startMinute)
	to := fmt.Sprintf("%02d:%02d:00", startHour+durationHours, startMinute)
	return from, to
}
