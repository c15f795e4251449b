package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"recipe-forge/internal/core/ai/huggingface"
	"recipe-forge/internal/core/ai/openrouter"
	"recipe-forge/internal/core/events"
	"recipe-forge/internal/core/image"
	"recipe-forge/internal/core/recipe"
	"recipe-forge/internal/core/store"
	"recipe-forge/internal/infrastructure/config"
	"recipe-forge/internal/pkg/common"

	"go.uber.org/zap"
)

// progressLabels 事件對應的進度文字
var progressLabels = map[events.Event]string{
	events.RecipePromptStart:        "Preparing recipe prompt...",
	events.RecipeGenerationStart:    "Generating recipe...",
	events.RecipeGenerationComplete: "Recipe generated",
	events.ImagePromptStart:         "Writing image prompt...",
	events.ImageGenerationStart:     "Generating recipe image...",
	events.ImageGenerationComplete:  "Recipe image ready",
	events.ProcessComplete:          "Done",
}

func main() {
	ingredientsArg := flag.String("ingredients", "", "comma-separated ingredient list (required)")
	servings := flag.String("servings", "2", "number of servings")
	maxTime := flag.Int("max-time", 60, "maximum total time in minutes")
	cuisinesArg := flag.String("cuisines", "", "comma-separated preferred cuisines")
	hint := flag.String("hint", "", "free-form hint for the recipe model")
	suggest := flag.Bool("suggest", false, "allow ingredients beyond the provided list")
	save := flag.Bool("save", false, "save the generated recipe to the recipe store")
	flag.Parse()

	if strings.TrimSpace(*ingredientsArg) == "" {
		fmt.Fprintln(os.Stderr, "error: -ingredients is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *ingredientsArg, *servings, *maxTime, *cuisinesArg, *hint, *suggest, *save); err != nil {
		common.LogError("執行失敗", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, ingredientsArg, servings string, maxTime int, cuisinesArg, hint string, suggest, save bool) error {
	chat := openrouter.NewClient(&cfg.OpenRouter)

	// 有金鑰才啟用二進位圖片後端
	var binaryBackend image.BinaryImageClient
	if cfg.HuggingFace.APIKey != "" {
		binaryBackend = huggingface.NewClient(&cfg.HuggingFace)
	}

	bus := events.NewBus()
	subscribeProgress(bus)

	imageSvc := image.NewService(chat, chat, binaryBackend, bus,
		cfg.OpenRouter.PromptModel, cfg.OpenRouter.ImageModel)
	recipeSvc := recipe.NewService(chat, imageSvc, bus, cfg.OpenRouter.RecipeModel)
	ingredientSvc := recipe.NewIngredientService(chat, cfg.OpenRouter.IngredientsModel)

	parsed, err := ingredientSvc.Parse(ctx, ingredientsArg)
	if err != nil {
		return fmt.Errorf("failed to parse ingredients: %w", err)
	}
	if len(parsed) == 0 {
		return fmt.Errorf("no ingredients recognized in %q", ingredientsArg)
	}

	names := make([]string, 0, len(parsed))
	for _, ing := range parsed {
		names = append(names, ing.Name)
	}

	mode := recipe.ModeUseWhatIHave
	if suggest {
		mode = recipe.ModeSuggest
	}

	req := &recipe.GenerationRequest{
		Ingredients:    names,
		Servings:       servings,
		Cuisines:       splitList(cuisinesArg),
		MaxTimeMinutes: maxTime,
		Hint:           hint,
		Mode:           mode,
	}

	rec, err := recipeSvc.GenerateRecipe(ctx, req)
	if err != nil {
		return err
	}

	if save {
		st, err := store.NewStore(ctx, cfg.Store.RedisAddr)
		if err != nil {
			return fmt.Errorf("failed to open recipe store: %w", err)
		}
		defer st.Close()

		id, err := st.Save(ctx, rec)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved recipe %s\n", id)
	}

	out, err := common.ToJSONIndent(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize recipe: %w", err)
	}
	fmt.Println(out)
	return nil
}

// subscribeProgress 把生命週期事件轉成 stderr 進度輸出
func subscribeProgress(bus *events.Bus) {
	for event, label := range progressLabels {
		label := label
		bus.Subscribe(event, func(events.Payload) {
			fmt.Fprintln(os.Stderr, label)
		})
	}
	bus.Subscribe(events.Error, func(payload events.Payload) {
		if msg, ok := payload["message"].(string); ok {
			fmt.Fprintf(os.Stderr, "error: %s\n", msg)
		}
	})
}

// splitList 逗號清單轉 slice，去除空白項
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
