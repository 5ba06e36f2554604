package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Language string

const (
	LanguageJava   Language = "Java"
	LanguageCpp    Language = "C++"
	LanguagePython Language = "Python"
)

func (l Language) FileExtension() string {
	switch l {
	case LanguageJava:
		return "java"
	case LanguageCpp:
		return "cpp"
	case LanguagePython:
		return "py"
	default:
		return "txt"
	}
}

// LanguageForFile guesses a language from a solution file's extension.
func LanguageForFile(path string) (Language, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "java":
		return LanguageJava, nil
	case "cpp", "cc", "cxx":
		return LanguageCpp, nil
	case "py":
		return LanguagePython, nil
	default:
		return "", fmt.Errorf("cannot infer language from file %q", path)
	}
}

func ParseLanguage(raw string) (Language, error) {
	switch strings.ToLower(raw) {
	case "java":
		return LanguageJava, nil
	case "cpp", "c++":
		return LanguageCpp, nil
	case "python", "py":
		return LanguagePython, nil
	default:
		return "", fmt.Errorf("unsupported language %q", raw)
	}
}
