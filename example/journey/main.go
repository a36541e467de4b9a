package main

import (
	"fmt"
	"log"

	"github.com/siherrmann/carepath"
)

var samples = []string{
	"I'm feeling anxious and want to find a therapist but I'm not sure about my insurance",
	"I have knee pain and need to book an appointment",
	"My joint hurts and I don't know what kind of doctor to see",
	"I've been feeling numb and unmotivated lately",
}

func main() {
	c, err := carepath.NewDefault()
	if err != nil {
		log.Fatalf("Failed to create carepath: %v", err)
	}
	defer c.Close()

	for _, text := range samples {
		result, err := c.Classify(text)
		if err != nil {
			log.Fatalf("Failed to classify %q: %v", text, err)
		}

		fmt.Printf("\n%q\n", text)
		fmt.Printf("  Domain: %s\n", result.Domain)
		fmt.Printf("  Step %d: %s\n", result.StepID, result.Step.StepName)
		fmt.Printf("  %s\n", result.Step.Description)
		if result.Step.EstimatedTime != "" {
			fmt.Printf("  Estimated time: %s\n", result.Step.EstimatedTime)
		}
		for _, question := range result.Clarifications {
			fmt.Printf("  Clarification: %s\n", question)
		}
		if result.Next != nil {
			fmt.Printf("  Next: step %d, %s\n", result.Next.StepID, result.Next.StepName)
		} else {
			fmt.Println("  This is the final step of the journey")
		}
	}
}
