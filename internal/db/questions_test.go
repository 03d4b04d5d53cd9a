package db

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coding-showdown/internal/config"
	"coding-showdown/internal/game"

	"gorm.io/gorm"
)

const sampleCSV = `id,round,difficulty,category,points,content,answer,options,code
lib-1,1,easy,loops,10,How many times does the loop run?,3,,
lib-2,ROUND_3,HARD,,40,Which keyword stops a loop?,break,continue|break| return ,
lib-3,2,medium,output,40,What does this print?,6,,"x := 1\nfmt.Println(x+5)"
`

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.Default()
	cfg.DBDriver = "sqlite"
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "library.db")
	conn, err := Open(cfg)
	if err != nil {
		t.Skipf("skipping test; sqlite unavailable: %v", err)
	}
	if err := Migrate(conn); err != nil {
		t.Skipf("skipping test; sqlite migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func TestReadQuestions(t *testing.T) {
	records, err := ReadQuestions(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("read questions: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Difficulty != "EASY" || records[0].Category != "LOOPS" || records[0].Round != 1 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if got := []string(records[1].Options); len(got) != 3 || got[2] != "return" {
		t.Fatalf("expected trimmed options, got %v", got)
	}
	if records[1].Round != 3 {
		t.Fatalf("expected ROUND_3 parsed as 3, got %d", records[1].Round)
	}
	if records[2].Code != "x := 1\nfmt.Println(x+5)" {
		t.Fatalf("expected unescaped code, got %q", records[2].Code)
	}
}

func TestReadQuestionsRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"duplicate":  "id,round,difficulty,content\na,1,EASY,q\na,1,EASY,q\n",
		"difficulty": "id,round,difficulty,content\na,1,TRIVIAL,q\n",
		"round":      "id,round,difficulty,content\na,4,EASY,q\n",
		"header":     "id,round,content\na,1,q\n",
		"points":     "id,round,difficulty,content,points\na,1,EASY,q,-5\n",
	}
	for name, input := range cases {
		if _, err := ReadQuestions(strings.NewReader(input)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadQuestionLibraryUpserts(t *testing.T) {
	conn := openTestDB(t)
	path := filepath.Join(t.TempDir(), "questions.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if _, err := LoadQuestionLibrary(conn, path); err != nil {
		t.Fatalf("load library: %v", err)
	}
	if _, err := LoadQuestionLibrary(conn, path); err != nil {
		t.Fatalf("reload library: %v", err)
	}
	var count int64
	if err := conn.Model(&Question{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected upsert to keep 3 rows, got %d", count)
	}
}

func TestQuestionBankMergesLibrary(t *testing.T) {
	conn := openTestDB(t)
	records, err := ReadQuestions(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("read questions: %v", err)
	}
	if _, err := UpsertQuestions(conn, records); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	base := game.DefaultBank()
	bank, added, err := QuestionBank(conn, base)
	if err != nil {
		t.Fatalf("question bank: %v", err)
	}
	if added != 3 || bank.Len() != base.Len()+3 {
		t.Fatalf("expected 3 merged questions, got added=%d len=%d base=%d", added, bank.Len(), base.Len())
	}
	q, ok := bank.Question("lib-2")
	if !ok || len(q.Options) != 3 || q.Answer != "break" {
		t.Fatalf("expected lib-2 with options, got %+v", q)
	}
	if _, ok := base.Question("lib-2"); ok {
		t.Fatalf("base bank must stay unchanged")
	}
}

func TestQuestionBankRejectsCollision(t *testing.T) {
	conn := openTestDB(t)
	if _, err := UpsertQuestions(conn, []Question{{
		QuestionKey: "r1-1",
		Round:       1,
		Difficulty:  "EASY",
		Content:     "clash",
	}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, _, err := QuestionBank(conn, game.DefaultBank()); err == nil {
		t.Fatalf("expected collision with built-in id to fail")
	}
}
