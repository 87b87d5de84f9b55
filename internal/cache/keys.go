package cache

import "fmt"

const questionKeyPrefix = "question:"

func QuestionKey(id uint) string {
	return fmt.Sprintf("%s%d", questionKeyPrefix, id)
}

func QuestionPattern() string {
	return questionKeyPrefix + "*"
}
