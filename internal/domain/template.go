package domain

// TemplateSection is one entry of the built-in seed template: a title plus
// its ordered item texts.
type TemplateSection struct {
	Title string
	Items []string
}

// DefaultTemplate is the fixed launch-readiness checklist used to seed an
// empty store. Order is significant and preserved on insert.
var DefaultTemplate = []TemplateSection{
	{
		Title: "Strategy & Setup",
		Items: []string{
			"Domain is live, connected, and SSL certificate is active (HTTPS)",
			"All DNS records (A, CNAME, MX, SPF, DKIM, DMARC) are verified",
			"Website hosting is stable and loading time < 3 seconds",
			"CMS and plugins are updated to latest versions",
			"Backup and restore points are configured",
		},
	},
	{
		Title: "Design & User Experience",
		Items: []string{
			"Responsive design tested on desktop, tablet, and mobile",
			"All fonts and images render correctly on all browsers",
			"Navigation is intuitive and consistent across pages",
			"Favicon and site logo appear correctly",
			"Buttons, CTAs, and forms are visually distinct and functional",
			"Accessibility basics (alt text, ARIA labels, color contrast) are met",
		},
	},
	{
		Title: "Technical Functionality",
		Items: []string{
			"All internal links work (no 404 or redirect loops)",
			"Forms send data correctly (test all contact/newsletter/checkout forms)",
			"Error pages (404, 500) are branded and helpful",
			"Sitemap.xml is generated and accessible",
			"Robots.txt is configured and allows proper crawling",
			"Canonical tags are correctly set",
			"Structured data (JSON-LD schema) is validated with Rich Results Test",
			"Redirects from old URLs are mapped (301 redirects)",
		},
	},
	{
		Title: "SEO Optimization",
		Items: []string{
			"Meta titles and descriptions are unique and optimized",
			"H1-H3 structure is consistent per page",
			"Alt text added for all images",
			"Keyword density is natural and well-distributed",
			"Internal linking follows a logical structure",
			"Google Analytics 4 and Google Search Console are connected",
			"Bing Webmaster Tools connected (optional)",
			"No-index tags only on staging or draft pages",
		},
	},
	{
		Title: "eCommerce",
		Items: []string{
			"Add to Cart, Checkout, and Payment flows fully tested",
			"Shipping, taxes, and discount logic verified",
			"Transactional emails tested",
			"Inventory management linked to products",
			"Abandoned cart recovery configured",
		},
	},
	{
		Title: "Legal & Compliance",
		Items: []string{
			"Privacy Policy and Terms of Service pages added",
			"Cookie consent banner enabled (if targeting EU/CA)",
			"Refund, return, or cancellation policy visible",
			"Accessibility statement (if required)",
			"GDPR / CCPA compliance confirmed if collecting user data",
		},
	},
	{
		Title: "Performance & Security",
		Items: []string{
			"Image compression and lazy loading enabled",
			"Caching and CDN configured",
			"Minified CSS/JS/HTML",
			"No mixed-content warnings (HTTPS only)",
			"Website scanned for malware or vulnerabilities",
			"Login credentials and admin access secured (2FA enabled)",
		},
	},
	{
		Title: "Launch & Monitoring",
		Items: []string{
			"Final QA review completed",
			"Uptime monitoring configured",
			"Analytics tracking verified live",
			"Post-launch redirect test run",
			"Submit sitemap to Google Search Console",
			"Announce launch via email or social media",
		},
	},
}
