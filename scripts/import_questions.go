// 批量导入题库脚本
//
// 运营拿到整理好的 YAML 题库文件后一次性导入：
// 文件里是若干套试卷，每套带自己的题目列表。
//
// 用法: go run scripts/import_questions.go <题库文件.yaml>

package main

import (
	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/pkg/database"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type questionFile struct {
	Tests []struct {
		ID              string `yaml:"id"`
		SubExamID       string `yaml:"subExamId"`
		Name            string `yaml:"name"`
		TestType        string `yaml:"testType"`
		Order           int    `yaml:"order"`
		DurationMinutes int    `yaml:"durationMinutes"`
		PricePoints     int    `yaml:"pricePoints"`
		RewardPoints    int    `yaml:"rewardPoints"`
		Questions       []struct {
			QuestionText  string  `yaml:"questionText"`
			OptionA       string  `yaml:"optionA"`
			OptionB       string  `yaml:"optionB"`
			OptionC       string  `yaml:"optionC"`
			OptionD       string  `yaml:"optionD"`
			CorrectOption string  `yaml:"correctOption"`
			Section       string  `yaml:"section"`
			Topic         string  `yaml:"topic"`
			Difficulty    string  `yaml:"difficulty"`
			PositiveMarks float64 `yaml:"positiveMarks"`
			NegativeMarks float64 `yaml:"negativeMarks"`
		} `yaml:"questions"`
	} `yaml:"tests"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("用法: go run scripts/import_questions.go <题库文件.yaml>")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("无法读取题库文件: %v", err)
	}

	var file questionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		log.Fatalf("解析题库文件失败: %v", err)
	}

	imported := 0
	for _, t := range file.Tests {
		card := model.TestCard{
			StringIDBase:    model.StringIDBase{ID: t.ID},
			SubExamID:       t.SubExamID,
			Name:            t.Name,
			TestType:        model.TestType(t.TestType),
			Order:           t.Order,
			DurationMinutes: t.DurationMinutes,
			PricePoints:     t.PricePoints,
			RewardPoints:    t.RewardPoints,
			IsActive:        true,
		}
		if err := db.Create(&card).Error; err != nil {
			log.Fatalf("创建试卷 %s 失败: %v", t.Name, err)
		}

		questions := make([]model.Question, 0, len(t.Questions))
		for _, q := range t.Questions {
			question := model.Question{
				TestCardID:    card.ID,
				QuestionText:  q.QuestionText,
				OptionA:       q.OptionA,
				OptionB:       q.OptionB,
				OptionC:       q.OptionC,
				OptionD:       q.OptionD,
				CorrectOption: model.Option(q.CorrectOption),
				Section:       q.Section,
				Topic:         q.Topic,
				Difficulty:    model.Difficulty(q.Difficulty),
				PositiveMarks: q.PositiveMarks,
				NegativeMarks: q.NegativeMarks,
			}
			if question.PositiveMarks == 0 {
				question.PositiveMarks = 1
			}
			questions = append(questions, question)
		}
		if len(questions) > 0 {
			if err := db.Create(&questions).Error; err != nil {
				log.Fatalf("导入试卷 %s 的题目失败: %v", t.Name, err)
			}
		}
		imported += len(questions)
		log.Printf("试卷 %s: 导入 %d 道题", card.Name, len(questions))
	}

	log.Printf("导入完成: %d 套试卷, 共 %d 道题", len(file.Tests), imported)
}
