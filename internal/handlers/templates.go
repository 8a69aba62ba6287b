package handlers

import "html/template"

type appPageData struct {
	Title       string
	Description string
	Image       string
	ShortURL    string
	AppName     string
	Platform    string
	AppURL      template.URL
	FallbackURL string
	Data        map[string]interface{}
	InitialMs   int64
	TimeoutMs   int64
}

type statusPageData struct {
	Domain         string
	IOSAppID       string
	AndroidPackage string
}

var appPageTemplate = template.Must(template.New("app").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Title}}</title>
    <meta name="description" content="{{.Description}}">
    <meta property="og:type" content="website">
    <meta property="og:title" content="{{.Title}}">
    <meta property="og:description" content="{{.Description}}">
    <meta property="og:image" content="{{.Image}}">
    <meta property="og:url" content="{{.ShortURL}}">
    <meta name="twitter:card" content="summary_large_image">
    <meta name="twitter:title" content="{{.Title}}">
    <meta name="twitter:description" content="{{.Description}}">
    <meta name="twitter:image" content="{{.Image}}">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; margin: 0; padding: 40px 20px; text-align: center; background: #f5f5f7; color: #1d1d1f; }
        .card { max-width: 360px; margin: 0 auto; background: #fff; border-radius: 12px; padding: 24px; box-shadow: 0 2px 12px rgba(0,0,0,0.08); }
        .spinner { border: 3px solid #e5e5ea; border-top: 3px solid #007AFF; border-radius: 50%; width: 32px; height: 32px; animation: spin 1s linear infinite; margin: 0 auto 20px; }
        .button { display: block; background-color: #007AFF; color: #fff; border: none; padding: 12px 24px; border-radius: 8px; font-size: 16px; cursor: pointer; width: 100%; text-decoration: none; box-sizing: border-box; }
        .store { display: block; margin-top: 12px; color: #007AFF; font-size: 14px; }
        .hint { margin-top: 15px; font-size: 12px; color: #8e8e93; }
        @keyframes spin { 0% { transform: rotate(0deg); } 100% { transform: rotate(360deg); } }
    </style>
</head>
<body data-platform="{{.Platform}}">
    <div class="card">
        <div class="spinner"></div>
        <h2>{{.Title}}</h2>
        {{if .Description}}<p>{{.Description}}</p>{{end}}
        <a id="open-app" class="button" href="{{.AppURL}}">Open {{.AppName}}</a>
        <a id="open-store" class="store" href="{{.FallbackURL}}">Get the app</a>
        <p class="hint">If the app doesn't open automatically, you'll be redirected to the app store.</p>
    </div>
    <script>
        (function () {
            var appUrl = {{.AppURL}};
            var fallbackUrl = {{.FallbackURL}};
            var deepLinkData = {{.Data}};
            var left = false;
            var timer = null;

            function markLeft() {
                left = true;
                if (timer) {
                    clearTimeout(timer);
                    timer = null;
                }
            }

            function copyDeepLinkData() {
                try {
                    if (navigator.clipboard && navigator.clipboard.writeText) {
                        navigator.clipboard.writeText(JSON.stringify(deepLinkData)).catch(function () {});
                    }
                } catch (e) {}
            }

            function goToStore() {
                timer = null;
                if (left || document.hidden) {
                    return;
                }
                copyDeepLinkData();
                window.location.href = fallbackUrl;
            }

            function openApp() {
                left = false;
                window.location.href = appUrl;
                if (timer) {
                    clearTimeout(timer);
                }
                timer = setTimeout(goToStore, {{.TimeoutMs}});
            }

            document.addEventListener("visibilitychange", function () {
                if (document.hidden) {
                    markLeft();
                }
            });
            window.addEventListener("pagehide", markLeft);
            window.addEventListener("blur", markLeft);
            window.addEventListener("focus", function () {
                left = false;
            });

            document.getElementById("open-app").addEventListener("click", function (e) {
                e.preventDefault();
                openApp();
            });
            document.getElementById("open-store").addEventListener("click", copyDeepLinkData);

            setTimeout(openApp, {{.InitialMs}});
        })();
    </script>
</body>
</html>
`))

var notFoundTemplate = template.Must(template.New("notfound").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Link Not Found</title></head>
<body style="font-family: Arial, sans-serif; margin: 40px; text-align: center;">
    <h1>404 - Link Not Found</h1>
    <p>The link you're looking for doesn't exist or has expired.</p>
</body>
</html>
`))

var statusTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Dynamic Links Server</title></head>
<body style="font-family: Arial, sans-serif; margin: 40px; text-align: center;">
    <h1>Dynamic Links Server</h1>
    <p>Server is up and running!</p>
    <p><strong>Domain:</strong> {{.Domain}}</p>
    <p><strong>iOS App:</strong> {{.IOSAppID}}</p>
    <p><strong>Android App:</strong> {{.AndroidPackage}}</p>
</body>
</html>
`))
