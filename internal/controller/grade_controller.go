package controller

import (
	"errors"
	"net/http"

	"gradebook_backend/internal/service"
	"gradebook_backend/internal/util"
	"gradebook_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgLoadGradesFailed = "could not load grades"

type GradeController struct {
	AggregationService *service.GradeAggregationService
	ExportService      *service.GradeExportService
}

func NewGradeController(aggregationService *service.GradeAggregationService, exportService *service.GradeExportService) *GradeController {
	return &GradeController{
		AggregationService: aggregationService,
		ExportService:      exportService,
	}
}

// @Summary 课程成绩汇总
// @Description 汇总课程内所有学生在所有测验上的成绩（常规 + 直播加分 + 自定义加分）
// @Tags 成绩
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /teacher/courses/{courseId}/grades [get]
func (c *GradeController) GetCourseGrades(ctx *gin.Context) {
	courseID := ctx.Param("courseId")
	result, err := c.AggregationService.ComputeAggregatedGrades(ctx.Request.Context(), courseID)
	if err != nil {
		c.handleAggregationError(ctx, courseID, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 单个学生的课程成绩
// @Tags 成绩
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Param studentId path string true "学生ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /teacher/courses/{courseId}/students/{studentId}/grades [get]
func (c *GradeController) GetStudentGrades(ctx *gin.Context) {
	courseID := ctx.Param("courseId")
	studentID := ctx.Param("studentId")
	summary, err := c.AggregationService.ComputeStudentGrades(ctx.Request.Context(), courseID, studentID)
	if errors.Is(err, util.ErrStudentNotEnrolled) {
		util.NotFound(ctx)
		return
	}
	if err != nil {
		c.handleAggregationError(ctx, courseID, err)
		return
	}
	util.Success(ctx, summary)
}

// @Summary 导出课程成绩 CSV
// @Tags 成绩
// @Produce text/csv
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Success 200 {string} string "CSV"
// @Failure 500 {object} util.Response
// @Router /teacher/courses/{courseId}/grades/export [get]
func (c *GradeController) ExportCourseGrades(ctx *gin.Context) {
	courseID := ctx.Param("courseId")
	csv, _, err := c.ExportService.ExportCourse(ctx.Request.Context(), courseID)
	if err != nil {
		c.handleAggregationError(ctx, courseID, err)
		return
	}

	filename := service.ExportFileName(courseID, c.ExportService.Now())
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, util.MimeCSV, []byte(csv))
}

// @Summary 归档课程成绩 CSV 到对象存储
// @Tags 成绩
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Success 201 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /teacher/courses/{courseId}/grades/export/archive [post]
func (c *GradeController) ArchiveCourseGrades(ctx *gin.Context) {
	courseID := ctx.Param("courseId")
	archive, err := c.ExportService.ArchiveCourse(ctx.Request.Context(), courseID)
	if err != nil {
		c.handleAggregationError(ctx, courseID, err)
		return
	}
	util.Created(ctx, archive)
}

// 汇总失败统一返回可重试的通用提示
func (c *GradeController) handleAggregationError(ctx *gin.Context, courseID string, err error) {
	if errors.Is(err, util.ErrCourseIDRequired) {
		util.BadRequest(ctx, err.Error())
		return
	}
	logger.Log.Error("Grade aggregation failed", zap.String("courseId", courseID), zap.Error(err))
	util.Error(ctx, http.StatusInternalServerError, msgLoadGradesFailed)
}
