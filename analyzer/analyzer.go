package analyzer

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bububa/platelens/correct"
	"github.com/bububa/platelens/estimate"
	"github.com/bububa/platelens/identify"
	"github.com/bububa/platelens/nutrition"
	"github.com/bububa/platelens/schema"
	"github.com/bububa/platelens/tools"
	"github.com/bububa/platelens/tools/fooddata"
)

// Analyzer drives the full pipeline: identification, correction merging,
// per-item nutrition resolution and report assembly.
type Analyzer struct {
	identifier *identify.Identifier
	applier    *correct.Applier
	lookup     tools.Tool[fooddata.Input, fooddata.Output]
	estimator  *estimate.Estimator
	logger     *zap.SugaredLogger
}

type Option func(*Analyzer)

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

func New(identifier *identify.Identifier, applier *correct.Applier, lookup tools.Tool[fooddata.Input, fooddata.Output], estimator *estimate.Estimator, opts ...Option) *Analyzer {
	ret := &Analyzer{
		identifier: identifier,
		applier:    applier,
		lookup:     lookup,
		estimator:  estimator,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop().Sugar()
	}
	return ret
}

// AnalyzeFile reads the image from disk and analyzes it. An unreadable path
// is reported as a structured failure, never an error return.
func (a *Analyzer) AnalyzeFile(ctx context.Context, imagePath, corrections string) *Report {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		a.logger.Errorw("image file not found", "path", imagePath, "error", err)
		return &Report{Error: "Image file not found"}
	}
	return a.Analyze(ctx, schema.Image{Data: data}, corrections)
}

// Analyze runs the pipeline over raw image bytes. Identification failure is
// the only stage that fails the whole report; every later stage degrades to
// a lower tier instead. A panic anywhere surfaces as a failure report too.
func (a *Analyzer) Analyze(ctx context.Context, img schema.Image, corrections string) (report *Report) {
	logger := a.logger.With("analysis_id", uuid.NewString())
	defer func() {
		if r := recover(); r != nil {
			logger.Errorw("analysis panicked", "panic", r)
			report = &Report{Error: fmt.Sprintf("%v", r)}
		}
	}()

	corrections = strings.TrimSpace(corrections)
	logger.Infow("analyzing meal photo", "image_bytes", len(img.Data), "format", img.Format())
	analysis, err := a.identifier.Identify(ctx, img, corrections)
	if err != nil {
		logger.Errorw("analysis failed", "error", err)
		return &Report{Error: err.Error()}
	}

	if corrections != "" {
		analysis = a.applier.Apply(ctx, analysis, corrections)
	}

	var (
		items  []DetailedItem
		total  TotalNutrition
		counts SourceCounts
	)
	for _, foodItem := range analysis.FoodItems {
		detail := a.resolveItem(ctx, logger, foodItem)
		switch detail.DataSource {
		case nutrition.SourceUSDA:
			counts.USDAItems++
		case nutrition.SourceGemini:
			counts.GeminiEstimated++
		default:
			counts.DefaultEstimated++
		}
		if detail.UserCorrected || detail.UserAdded {
			counts.UserCorrected++
		}
		total.add(detail.Nutrition)
		items = append(items, detail)
	}
	counts.TotalItems = len(items)
	total.round()

	score := accuracyScore(counts)
	logger.Infow("analysis completed", "items", counts.TotalItems, "accuracy", score)

	report = &Report{
		Success: true,
		Analysis: &AnalysisSummary{
			Reasoning:              analysis.Reasoning,
			MealContext:            analysis.MealContext,
			TotalItemsIdentified:   counts.TotalItems,
			UserCorrectionsApplied: corrections != "",
			UserCorrectedItems:     counts.UserCorrected,
		},
		FoodItems:      items,
		TotalNutrition: &total,
		HealthInsights: healthInsights(items, total),
		DataSources: &DataSources{
			FoodIdentification:   identificationLabel,
			NutritionDataSources: counts,
			AccuracyScore:        score,
			AccuracyBreakdown:    accuracyBreakdown(counts),
		},
	}
	if corrections != "" {
		report.UserCorrections = corrections
	}
	if report.Analysis.Reasoning == "" {
		report.Analysis.Reasoning = "AI analysis completed"
	}
	return report
}

// resolveItem walks the tiers for one food: database lookup first, model
// estimation on a miss, category defaults inside the estimator as the floor.
func (a *Analyzer) resolveItem(ctx context.Context, logger *zap.SugaredLogger, item identify.FoodItem) DetailedItem {
	detail := DetailedItem{
		Name:                 item.Name,
		CookingMethod:        item.CookingMethod,
		EstimatedWeightGrams: item.EstimatedWeightGrams,
		EstimatedQuantity:    item.EstimatedQuantity,
		Description:          item.Description,
		ConfidenceScore:      item.ConfidenceScore,
		UserCorrected:        item.UserCorrected,
		UserAdded:            item.UserAdded,
		CorrectionNotes:      item.CorrectionNotes,
	}
	if item.UserAdded && detail.CorrectionNotes == "" {
		detail.CorrectionNotes = "Added based on user input"
	}

	logger.Infow("fetching nutrition data", "food", item.Name, "cooking_method", item.CookingMethod)
	out, err := a.lookup.Run(ctx, fooddata.NewInput(item.Name, item.CookingMethod, item.EstimatedWeightGrams))
	if err == nil && out.Found {
		detail.DataSource = out.Record.Source
		detail.Nutrition = out.Record
		detail.USDAReference = &USDAReference{
			FoodName:    out.Record.FoodName,
			ServingSize: out.Record.ServingSize,
			ServingUnit: out.Record.ServingUnit,
		}
		return detail
	}

	rec := a.estimator.Estimate(ctx, estimate.Request{
		FoodName:      item.Name,
		CookingMethod: item.CookingMethod,
		Description:   item.Description,
		WeightGrams:   item.EstimatedWeightGrams,
	})
	detail.DataSource = rec.Source
	detail.EstimationConfidence = rec.Confidence
	detail.EstimationNotes = rec.Notes
	detail.Nutrition = rec
	return detail
}
