package correct

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/bububa/platelens/identify"
	"github.com/bububa/platelens/schema"
)

type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeLLM) GenerateVision(ctx context.Context, img schema.Image, prompt string) (string, error) {
	return f.reply, f.err
}

func sampleAnalysis() *identify.Analysis {
	return &identify.Analysis{
		FoodItems: []identify.FoodItem{
			{Name: "Chapati", EstimatedWeightGrams: 50, ConfidenceScore: 80},
			{Name: "Lentil Dal", EstimatedWeightGrams: 150, ConfidenceScore: 75},
		},
		MealContext: "Lunch",
	}
}

func TestApplyBlankCorrectionsIsIdentity(t *testing.T) {
	llm := &fakeLLM{}
	applier := New(llm)
	in := sampleAnalysis()
	out := applier.Apply(context.Background(), in, "   ")
	if out != in {
		t.Error("Expect the same analysis back on blank corrections")
	}
	if out.UserCorrectionsApplied {
		t.Error("Expect corrections flag unset on blank corrections")
	}
	if llm.calls != 0 {
		t.Errorf("Expect no model calls, but got %d", llm.calls)
	}
}

func TestApplyModelMerge(t *testing.T) {
	llm := &fakeLLM{reply: `Here you go:
{
  "food_items": [
    {"name": "Chapati", "estimated_weight_grams": 100, "confidence_score": 90},
    {"name": "Lentil Dal", "estimated_weight_grams": 150, "confidence_score": 75}
  ],
  "meal_context": "Lunch"
}`}
	out := New(llm).Apply(context.Background(), sampleAnalysis(), "there are 2 chapatis")
	if !out.UserCorrectionsApplied {
		t.Error("Expect corrections flag set")
	}
	chapati := out.FoodItems[0]
	if chapati.EstimatedWeightGrams != 100 {
		t.Errorf("Expect merged weight 100, but got %v", chapati.EstimatedWeightGrams)
	}
	if !chapati.UserCorrected {
		t.Error("Expect the chapati flagged as user corrected")
	}
	if chapati.CorrectionNotes != "User corrected quantity to 2 items" {
		t.Errorf("Unexpected correction notes: %q", chapati.CorrectionNotes)
	}
}

func TestApplyModelFailureKeepsOriginal(t *testing.T) {
	llm := &fakeLLM{err: errors.New("model unavailable")}
	in := sampleAnalysis()
	want := *in
	out := New(llm).Apply(context.Background(), in, "there are 2 chapatis")
	if !out.UserCorrectionsApplied {
		t.Error("Expect corrections flag set even when the merge fails")
	}
	if out.FoodItems[1].Name != want.FoodItems[1].Name {
		t.Error("Expect the original items preserved")
	}
	if !out.FoodItems[0].UserCorrected {
		t.Error("Expect the manual pattern pass to still run")
	}
}

func TestApplyGarbageReplyKeepsOriginal(t *testing.T) {
	llm := &fakeLLM{reply: "I refuse to answer in JSON."}
	in := sampleAnalysis()
	out := New(llm).Apply(context.Background(), in, "missing: Cucumber Raita")
	if len(out.FoodItems) != 3 {
		t.Fatalf("Expect 3 items after the missing pattern, but got %d", len(out.FoodItems))
	}
	added := out.FoodItems[2]
	if added.Name != "Cucumber Raita" {
		t.Errorf("Expect Cucumber Raita appended, but got %q", added.Name)
	}
	if !added.UserAdded {
		t.Error("Expect the appended item flagged user_added")
	}
	if added.EstimatedWeightGrams != 100 || added.ConfidenceScore != 100 {
		t.Errorf("Expect default weight 100 and confidence 100, but got %v / %v", added.EstimatedWeightGrams, added.ConfidenceScore)
	}
	if added.Description != "Added based on user input: Cucumber Raita" {
		t.Errorf("Unexpected description: %q", added.Description)
	}
}

func TestApplyEmptyMergeKeepsOriginal(t *testing.T) {
	llm := &fakeLLM{reply: `{"food_items": []}`}
	in := sampleAnalysis()
	out := New(llm).Apply(context.Background(), in, "please double check")
	if len(out.FoodItems) != 2 {
		t.Errorf("Expect the original 2 items kept, but got %d", len(out.FoodItems))
	}
}

func TestApplyAdditionPattern(t *testing.T) {
	llm := &fakeLLM{reply: "no json here"}
	out := New(llm).Apply(context.Background(), sampleAnalysis(), "add Mango Pickle")
	if len(out.FoodItems) != 3 {
		t.Fatalf("Expect 3 items, but got %d", len(out.FoodItems))
	}
	if out.FoodItems[2].Name != "Mango Pickle" {
		t.Errorf("Expect Mango Pickle appended, but got %q", out.FoodItems[2].Name)
	}
}

func TestApplySubstitutionPattern(t *testing.T) {
	llm := &fakeLLM{reply: "no json here"}
	out := New(llm).Apply(context.Background(), sampleAnalysis(), "actually 3 instead of 1")
	first := out.FoodItems[0]
	if !first.UserCorrected {
		t.Error("Expect the first item flagged as user corrected")
	}
	if first.CorrectionNotes != "User corrected count from 1 to 3" {
		t.Errorf("Unexpected correction notes: %q", first.CorrectionNotes)
	}
	if first.EstimatedWeightGrams != 50 {
		t.Errorf("Expect the weight untouched, but got %v", first.EstimatedWeightGrams)
	}
}

func TestApplyPortionPattern(t *testing.T) {
	llm := &fakeLLM{reply: "no json here"}
	out := New(llm).Apply(context.Background(), sampleAnalysis(), "it was 1.5 cups of dal")
	first := out.FoodItems[0]
	if !first.UserCorrected {
		t.Error("Expect the first item flagged as user corrected")
	}
	if first.CorrectionNotes != "User specified portion: 1.5 cups" {
		t.Errorf("Unexpected correction notes: %q", first.CorrectionNotes)
	}
}

func TestApplyDoesNotMutateOriginalOnMergePath(t *testing.T) {
	llm := &fakeLLM{reply: `{"food_items": [{"name": "Chapati", "estimated_weight_grams": 100, "confidence_score": 90}]}`}
	in := sampleAnalysis()
	wantItems := make([]identify.FoodItem, len(in.FoodItems))
	copy(wantItems, in.FoodItems)
	New(llm).Apply(context.Background(), in, "there are 2 chapatis")
	if !reflect.DeepEqual(in.FoodItems, wantItems) {
		t.Error("Expect the input analysis untouched when the merge succeeds")
	}
}
