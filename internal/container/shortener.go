package container

import (
	"github.com/samber/do"
	"github.com/serroba/shortref/internal/codegen"
	"github.com/serroba/shortref/internal/shortener"
	"github.com/serroba/shortref/internal/urlcheck"
	"go.uber.org/zap"
)

// ShortenerPackage provides the candidate source, allocator, resolver and
// URL checker. It expects StorePackage and TrackingPackage.
func ShortenerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (shortener.CandidateSource, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.Generator == GeneratorNanoID {
			return codegen.NewNanoID(opts.CodeLength, codegen.Alphabet)
		}

		return codegen.NewGenerator(opts.CodeLength)
	})

	do.Provide(i, func(i *do.Injector) (*shortener.Allocator, error) {
		opts := do.MustInvoke[*Options](i)

		return shortener.NewAllocator(
			do.MustInvoke[shortener.Store](i),
			do.MustInvoke[shortener.CandidateSource](i),
			do.MustInvoke[*zap.Logger](i),
			shortener.WithMaxAttempts(opts.MaxAttempts),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*shortener.Resolver, error) {
		return shortener.NewResolver(
			do.MustInvoke[shortener.Store](i),
			do.MustInvoke[*Tracking](i).Tracker,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*urlcheck.Checker, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		checkOpts := []urlcheck.Option{urlcheck.WithTimeout(opts.PingTimeout())}

		if !opts.PingEnabled {
			checkOpts = append(checkOpts, urlcheck.WithoutPing())
		}

		if opts.WhitelistEnabled {
			whitelist, err := urlcheck.LoadWhitelistFile(opts.WhitelistPath, opts.WhitelistAutoWWW)
			if err != nil {
				return nil, err
			}

			logger.Info("using host whitelist",
				zap.String("path", opts.WhitelistPath),
				zap.Int("hosts", len(whitelist)),
				zap.Bool("autoWww", opts.WhitelistAutoWWW),
			)

			checkOpts = append(checkOpts, urlcheck.WithWhitelist(whitelist))
		}

		return urlcheck.NewChecker(logger, checkOpts...), nil
	})
}
