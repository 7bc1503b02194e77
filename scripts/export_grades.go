// 手动导出课程成绩脚本
//
// 与 HTTP 接口 GET /api/teacher/courses/{courseId}/grades/export 使用同一套汇总逻辑，
// 用于离线对账或在没有启动服务时导出。-seed 可以先把 YAML 中的文档写入存储，
// 配合 store.driver=memory 做本地演示。YAML 中纯数字的键需要加引号。
//
// 用法: go run scripts/export_grades.go -course <courseId> [-out grades.csv] [-seed seed.yaml] [-archive]

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"sort"

	"gradebook_backend/internal/app"
	"gradebook_backend/internal/config"
	"gradebook_backend/internal/repository"
	"gradebook_backend/internal/service"
	"gradebook_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

// seedFile 文档路径 -> 文档内容
type seedFile struct {
	Documents map[string]interface{} `yaml:"documents"`
}

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	courseID := flag.String("course", "", "课程ID")
	out := flag.String("out", "", "输出文件，为空时按课程和时间生成文件名")
	seedPath := flag.String("seed", "", "种子数据 YAML")
	archive := flag.Bool("archive", false, "同时归档到对象存储")
	flag.Parse()

	if *courseID == "" {
		log.Fatal("缺少 -course 参数")
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	store, _, rdb, err := app.OpenStore(cfg)
	if err != nil {
		log.Fatalf("文档存储连接失败: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	ctx := context.Background()
	if *seedPath != "" {
		if err := loadSeed(ctx, store, *seedPath); err != nil {
			log.Fatalf("写入种子数据失败: %v", err)
		}
	}

	_, exporter := app.NewServices(store, cfg)

	csv, result, err := exporter.ExportCourse(ctx, *courseID)
	if err != nil {
		log.Fatalf("导出失败: %v", err)
	}

	if *archive || cfg.Grading.ArchiveExports {
		archived, err := exporter.Archive(ctx, result, csv)
		if err != nil {
			log.Fatalf("归档失败: %v", err)
		}
		log.Printf("已归档: %s (%d 名学生, %d 个测验)", archived.URL, archived.Students, archived.Quizzes)
	}

	if *out == "" {
		*out = service.ExportFileName(*courseID, exporter.Now())
	}
	if err := os.WriteFile(*out, []byte(csv), 0644); err != nil {
		log.Fatalf("写入文件失败: %v", err)
	}
	log.Printf("完成！%d 名学生，%d 个测验 -> %s", len(result.Students), len(result.Quizzes), *out)
}

func loadSeed(ctx context.Context, store repository.DocumentStore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return err
	}

	paths := make([]string, 0, len(seed.Documents))
	for p := range seed.Documents {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if err := repository.PutJSON(ctx, store, p, seed.Documents[p]); err != nil {
			return err
		}
	}
	log.Printf("已写入 %d 个种子文档", len(paths))
	return nil
}
